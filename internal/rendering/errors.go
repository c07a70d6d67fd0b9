// Package rendering turns a resume document into its output forms: the DOCX tree and the
// HTML preview that PDF export rasterises.
package rendering

import (
	"fmt"
	"strings"
)

// ExportFailedMessage is the user-facing message of every ExportError.
const ExportFailedMessage = "Failed to export resume. Please try again."

// TemplateError represents an error parsing or executing the preview template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// PreconditionError is returned before any output is built when the document is not
// exportable. Missing lists the field paths that caused it, if any.
type PreconditionError struct {
	Message string
	Missing []string
}

func (e *PreconditionError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s (missing: %s)", e.Message, strings.Join(e.Missing, ", "))
	}
	return e.Message
}

// ExportError represents a failure while producing an artifact. Message is safe to show
// to users; Cause carries the library error.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
