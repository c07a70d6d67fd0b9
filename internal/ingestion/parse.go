// Package ingestion imports existing resumes: text extraction from uploaded files and
// model-assisted parsing into a ResumeDocument.
package ingestion

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ParseFailedMessage is shown when the model response cannot be turned into a document.
const ParseFailedMessage = "Failed to parse resume. Please try again or fill in the form manually."

// Result is an imported resume.
type Result struct {
	Document types.ResumeDocument `json:"document"`
	Metadata *Metadata            `json:"metadata"`
}

// Import extracts the text of an uploaded file and parses it into a normalised document.
func Import(ctx context.Context, client llm.Client, filename string, data []byte) (*Result, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	doc, err := ParseResume(ctx, client, text)
	if err != nil {
		return nil, err
	}

	meta := describeUpload(filename, data, text, time.Now())
	meta.Model = client.GetModel(llm.TierStandard)
	return &Result{Document: *doc, Metadata: meta}, nil
}

// ParseResume asks the model to structure resume text and normalises the answer.
func ParseResume(ctx context.Context, client llm.Client, text string) (*types.ResumeDocument, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Message: "resume contains no text"}
	}

	prompt, err := prompts.Render("import.json", "parse-resume", map[string]string{"Resume": text})
	if err != nil {
		return nil, &ParseError{Message: ParseFailedMessage, Cause: err}
	}
	response, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("[IMPORT] parse call failed: %v", err)
		return nil, &ParseError{Message: ParseFailedMessage, Cause: err}
	}

	raw, err := llm.ExtractJSONObject(response)
	if err != nil {
		return nil, &ParseError{Message: ParseFailedMessage, Cause: err}
	}
	if err := schemas.ValidateResumeJSON([]byte(raw)); err != nil {
		log.Printf("[IMPORT] response rejected: %v", err)
		return nil, &ParseError{Message: ParseFailedMessage, Cause: err}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Message: ParseFailedMessage, Cause: err}
	}

	Normalize(&doc)
	return &doc, nil
}
