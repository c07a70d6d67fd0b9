package validation

import "fmt"

// PathError reports a field path that does not address any field of the resume schema.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid field path %q: %s", e.Path, e.Message)
}
