package editor

import "fmt"

// FieldTooLongError is returned when an edit would exceed a field's hard length cap.
// The document is left unchanged.
type FieldTooLongError struct {
	Path   string
	MaxLen int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s must be at most %d characters", e.Path, e.MaxLen)
}

// GateError is returned when an add action is not currently permitted.
type GateError struct {
	Section string
	Reason  string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("cannot add to %s: %s", e.Section, e.Reason)
}

// IndexError is returned for an item or task index outside the current list.
type IndexError struct {
	Section string
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Section, e.Index, e.Len)
}

// TemplateError is returned for edits to a section the active template does not show.
type TemplateError struct {
	Section  string
	Template string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("section %s is not available for the %s template", e.Section, e.Template)
}
