// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/rating"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/tailoring"
	"github.com/jonathan/resume-builder/internal/validation"
)

// InternalErrorMessage is shown for errors that have no user-facing message.
const InternalErrorMessage = "Internal server error"

// ErrSessionNotFound indicates an unknown or expired editing session
type ErrSessionNotFound struct {
	ID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		sessionErr    *ErrSessionNotFound
		validationErr *ErrValidation
		unavailable   *ErrUnavailable
		maxBytes      *http.MaxBytesError
		precondition  *rendering.PreconditionError
		pathErr       *validation.PathError
		tooLong       *editor.FieldTooLongError
		indexErr      *editor.IndexError
		gateErr       *editor.GateError
		templateErr   *editor.TemplateError
		serviceErr    *tailoring.ServiceError
		ratingErr     *rating.Error
		formatErr     *ingestion.UnsupportedFormatError
		extractErr    *ingestion.ExtractError
		parseErr      *ingestion.ParseError
		fetchErr      *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &sessionErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &pathErr), errors.As(err, &tooLong),
		errors.As(err, &indexErr), errors.Is(err, tailoring.ErrNoJobDescription):
		return http.StatusBadRequest
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, tailoring.ErrBusy), errors.Is(err, tailoring.ErrNothingToUndo),
		errors.As(err, &gateErr), errors.As(err, &templateErr):
		return http.StatusConflict
	case errors.As(err, &precondition):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ratingErr):
		switch ratingErr.Message {
		case rating.OnlyPDFMessage:
			return http.StatusUnsupportedMediaType
		case rating.NoFileMessage:
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &formatErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		if fetchErr.Message == fetch.InvalidURLMessage {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &serviceErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message shown to API clients. Errors that carry a user-facing
// message return it without the underlying cause; unclassified errors are hidden.
func PublicMessage(err error) string {
	var (
		exportErr  *rendering.ExportError
		serviceErr *tailoring.ServiceError
		ratingErr  *rating.Error
		parseErr   *ingestion.ParseError
		extractErr *ingestion.ExtractError
		fetchErr   *fetch.Error
	)

	switch {
	case errors.As(err, &exportErr):
		return exportErr.Message
	case errors.As(err, &serviceErr):
		return serviceErr.Message
	case errors.As(err, &ratingErr):
		return ratingErr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case errors.As(err, &extractErr):
		return fmt.Sprintf("Could not read the %s file: %s", extractErr.Format, extractErr.Message)
	case errors.As(err, &fetchErr):
		return "Could not fetch the job posting: " + fetchErr.Message
	case HTTPStatus(err) == http.StatusInternalServerError:
		return InternalErrorMessage
	default:
		return err.Error()
	}
}
