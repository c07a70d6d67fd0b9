// Package fetch retrieves job postings over HTTP and reduces them to plain text for tailoring.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeBuilder/1.0)"
	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 5 << 20
)

// InvalidURLMessage is the Error message for URLs rejected by ValidateURL.
const InvalidURLMessage = "invalid URL"

// Page is a fetched document.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error reports a failed fetch of URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "fetch " + e.URL + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Options configures Get. A nil *Options uses the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

func (o *Options) client() *http.Client {
	switch {
	case o == nil:
		return &http.Client{Timeout: DefaultTimeout}
	case o.Client != nil:
		return o.Client
	case o.Timeout > 0:
		return &http.Client{Timeout: o.Timeout}
	default:
		return &http.Client{Timeout: DefaultTimeout}
	}
}

func (o *Options) userAgent() string {
	if o == nil || o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return nil
	}
	return &Error{URL: rawURL, Message: InvalidURLMessage, Cause: err}
}

// Get downloads rawURL. A page with a status other than 200 is returned along with an
// *Error so callers can record the status.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "bad request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.userAgent())
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "reading body failed", Cause: err}
	}
	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// boilerplate is removed from every page before extraction.
const boilerplate = "nav, header, footer, aside, script, style, noscript, iframe, .sidebar, .ad, .ads, .cookie-banner, .popup"

// blockElements end a line in the extracted text.
const blockElements = "p, li, h1, h2, h3, h4, h5, h6, div, br, tr, dt, dd"

// ExtractText returns the readable text of the first content match in html, or of the
// whole body when nothing matches. Noise is removed before matching.
func ExtractText(html string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find(boilerplate).Remove()
	if len(sel.Noise) > 0 {
		doc.Find(strings.Join(sel.Noise, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, s := range sel.Content {
		if match := doc.Find(s); match.Length() > 0 {
			root = match.First()
			break
		}
	}
	root.Find(blockElements).AppendHtml("\n")
	return tidyLines(root.Text()), nil
}

// tidyLines collapses runs of whitespace within lines and drops empty lines.
func tidyLines(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(fields, " "))
	}
	return b.String()
}
