package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/rating"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/tailoring"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestErrSessionNotFound(t *testing.T) {
	id := uuid.New()
	err := &ErrSessionNotFound{ID: id}
	assert.Equal(t, "session not found: "+id.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "template", Message: "must be one of: freshie experienced"}
	assert.Equal(t, "validation error: template - must be one of: freshie experienced", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrUnavailable(t *testing.T) {
	err := &ErrUnavailable{Feature: "AI tailoring"}
	assert.Equal(t, "AI tailoring is not configured on this server", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "wrapped not found", err: fmt.Errorf("resume x: %w", db.ErrNotFound), expected: http.StatusNotFound},
		{name: "path error", err: &validation.PathError{Path: "x", Message: "unrecognised path"}, expected: http.StatusBadRequest},
		{name: "field too long", err: &editor.FieldTooLongError{Path: "personal.summary", MaxLen: 300}, expected: http.StatusBadRequest},
		{name: "index", err: &editor.IndexError{Section: "skills", Index: 3, Len: 1}, expected: http.StatusBadRequest},
		{name: "no job description", err: tailoring.ErrNoJobDescription, expected: http.StatusBadRequest},
		{name: "body too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "busy", err: tailoring.ErrBusy, expected: http.StatusConflict},
		{name: "nothing to undo", err: tailoring.ErrNothingToUndo, expected: http.StatusConflict},
		{name: "gate", err: &editor.GateError{Section: "skills", Reason: "complete existing skills first"}, expected: http.StatusConflict},
		{name: "template", err: &editor.TemplateError{Section: "experience", Template: "freshie"}, expected: http.StatusConflict},
		{name: "precondition", err: &rendering.PreconditionError{Message: "invalid"}, expected: http.StatusUnprocessableEntity},
		{name: "only pdf", err: &rating.Error{Message: rating.OnlyPDFMessage}, expected: http.StatusUnsupportedMediaType},
		{name: "no file", err: &rating.Error{Message: rating.NoFileMessage}, expected: http.StatusBadRequest},
		{name: "rating failed", err: &rating.Error{Message: rating.RateFailedMessage}, expected: http.StatusBadGateway},
		{name: "unsupported upload", err: &ingestion.UnsupportedFormatError{Filename: "a.png", Ext: ".png"}, expected: http.StatusUnsupportedMediaType},
		{name: "extract", err: &ingestion.ExtractError{Format: "pdf", Message: "corrupt"}, expected: http.StatusUnprocessableEntity},
		{name: "invalid url", err: &fetch.Error{Message: fetch.InvalidURLMessage}, expected: http.StatusBadRequest},
		{name: "fetch failed", err: &fetch.Error{Message: "fetch failed"}, expected: http.StatusBadGateway},
		{name: "service", err: &tailoring.ServiceError{Message: "Failed"}, expected: http.StatusBadGateway},
		{name: "parse", err: &ingestion.ParseError{Message: ingestion.ParseFailedMessage}, expected: http.StatusBadGateway},
		{name: "export", err: &rendering.ExportError{Message: rendering.ExportFailedMessage}, expected: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	cause := errors.New("chromedp: context deadline exceeded")

	assert.Equal(t, rendering.ExportFailedMessage,
		PublicMessage(&rendering.ExportError{Message: rendering.ExportFailedMessage, Cause: cause}))
	assert.Equal(t, "Failed to tailor resume.",
		PublicMessage(&tailoring.ServiceError{Message: "Failed to tailor resume.", Cause: cause}))
	assert.Equal(t, rating.RateFailedMessage,
		PublicMessage(fmt.Errorf("rate: %w", &rating.Error{Message: rating.RateFailedMessage, Cause: cause})))
	assert.Equal(t, ingestion.ParseFailedMessage,
		PublicMessage(&ingestion.ParseError{Message: ingestion.ParseFailedMessage, Cause: cause}))
	assert.Equal(t, InternalErrorMessage, PublicMessage(cause))
	assert.Equal(t, "nothing to undo", PublicMessage(tailoring.ErrNothingToUndo))
}

func TestPublicMessage_HidesCauses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
		cause    string
	}{
		{
			name: "pdf extraction",
			err: &ingestion.ExtractError{Format: "pdf", Message: "failed to read pdf",
				Cause: errors.New("malformed PDF: invalid xref table at offset 9182")},
			expected: "Could not read the pdf file: failed to read pdf",
			cause:    "xref",
		},
		{
			name: "job fetch",
			err: fmt.Errorf("tailor: %w", &fetch.Error{URL: "https://jobs.internal.example/p/1", Message: "request failed",
				Cause: errors.New("dial tcp 10.0.0.7:443: connect: connection refused")}),
			expected: "Could not fetch the job posting: request failed",
			cause:    "10.0.0.7",
		},
		{
			name:     "invalid url",
			err:      &fetch.Error{URL: "ftp://x", Message: fetch.InvalidURLMessage, Cause: errors.New(`unsupported scheme "ftp"`)},
			expected: "Could not fetch the job posting: " + fetch.InvalidURLMessage,
			cause:    "scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := PublicMessage(tt.err)
			assert.Equal(t, tt.expected, msg)
			assert.NotContains(t, msg, tt.cause)
		})
	}
}
