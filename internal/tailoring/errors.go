package tailoring

import (
	"errors"
	"fmt"
)

// User-facing failure messages of the two tailoring calls.
const (
	AnalyzeFailedMessage = "Failed analyzing job description."
	TailorFailedMessage  = "Failed tailoring resume content."
)

// Operations reported in ServiceError.Op.
const (
	OpAnalyze = "analyze"
	OpTailor  = "tailor"
)

var (
	// ErrBusy is returned when a tailoring action is already in flight for the session.
	ErrBusy = errors.New("tailoring already in progress")
	// ErrNothingToUndo is returned by Reset when the history is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNoJobDescription is returned when there is no job description to tailor against.
	ErrNoJobDescription = errors.New("job description is required")
)

// ServiceError reports a failed call to the generative model. The document is never
// modified when one is returned.
type ServiceError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
