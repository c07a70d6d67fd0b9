package ingestion

import "fmt"

// UnsupportedFormatError is returned for uploads that are not .pdf, .docx or .txt.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s: upload a .pdf, .docx or .txt file", e.Ext, e.Filename)
}

// ExtractError reports a file that could not be read as its declared format.
type ExtractError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// ParseError reports a failure to turn resume text into a document.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
