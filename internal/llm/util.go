package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError reports a model response that does not hold the expected JSON object.
// Response keeps the start of the offending text for logs.
type ParseError struct {
	Message  string
	Response string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return "parse error: " + e.Message
	}
	return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// StripCodeFence removes a markdown fence such as ```json ... ``` around a response.
// Models add one even when asked for bare JSON.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	body, ok := strings.CutPrefix(text, "```")
	if !ok {
		return text
	}
	// An info string is a single word on the opening line.
	if first, rest, found := strings.Cut(body, "\n"); found && !strings.ContainsAny(first, " {[") {
		body = rest
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

// ExtractJSONObject returns the span from the first '{' to the last '}' of text. Whether
// the span parses is left to the caller.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", &ParseError{Message: "no JSON object found in response", Response: clip(text)}
	}
	return text[start : end+1], nil
}

// DecodeJSONObject extracts the JSON object of text and unmarshals it into v.
func DecodeJSONObject(text string, v any) error {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ParseError{Message: "response is not valid JSON", Response: clip(raw), Cause: err}
	}
	return nil
}

const clipLen = 200

// clip shortens s to at most clipLen bytes without splitting a rune.
func clip(s string) string {
	if len(s) <= clipLen {
		return s
	}
	cut := clipLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
