package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/types"
)

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Template string          `json:"template" validate:"omitempty,oneof=freshie experienced"`
	Document json.RawMessage `json:"document" validate:"required"`
}

// CreateSessionRequest is the body of POST /sessions. A session starts from a stored resume,
// an inline document, or a blank document, in that order of preference.
type CreateSessionRequest struct {
	Template string          `json:"template"  validate:"omitempty,oneof=freshie experienced"`
	ResumeID string          `json:"resume_id" validate:"omitempty,uuid"`
	Document json.RawMessage `json:"document"`
}

// ReplaceResumeRequest is the body of PUT /sessions/{id}/resume. Either part may be omitted
// to switch only the template or only the document.
type ReplaceResumeRequest struct {
	Template string          `json:"template" validate:"omitempty,oneof=freshie experienced"`
	Document json.RawMessage `json:"document" validate:"required_without=Template"`
}

// FieldUpdate sets one value addressed by a field path such as "personal.email".
type FieldUpdate struct {
	Path  string `json:"path"  validate:"required,max=100"`
	Value string `json:"value"`
}

// UpdateFieldsRequest is the body of PATCH /sessions/{id}/fields.
type UpdateFieldsRequest struct {
	Fields []FieldUpdate `json:"fields" validate:"required,min=1,max=200,dive"`
}

// TailorRequest is the body of POST /sessions/{id}/tailor. The job description is taken
// verbatim or fetched from JobURL.
type TailorRequest struct {
	JobDescription string `json:"job_description" validate:"required_without=JobURL,max=20000"`
	JobURL         string `json:"job_url"         validate:"omitempty,url,max=2048"`
}

// SaveRequest is the body of POST /sessions/{id}/save.
type SaveRequest struct {
	Title  string `json:"title"   validate:"max=200"`
	UserID string `json:"user_id" validate:"max=200"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest reads a JSON body into dst and validates it. Unknown fields are rejected.
func decodeRequest(r *http.Request, dst any) error {
	return decode(r, dst, false)
}

// decodeOptionalRequest is decodeRequest for routes where the body may be left out; an empty
// body validates the zero value of dst.
func decodeOptionalRequest(r *http.Request, dst any) error {
	return decode(r, dst, true)
}

func decode(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return err
		case errors.Is(err, io.EOF) && optional:
			// empty body
		case errors.Is(err, io.EOF):
			return &ErrValidation{Field: "body", Message: "request body is required"}
		default:
			return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
	}
	return validateRequest(dst)
}

// validateRequest runs the struct tags of req and reports the first failure.
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fieldName(fe), Message: tagMessage(fe)}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// fieldName returns the path of the failing field without the request type prefix,
// e.g. "fields[0].path".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// templateOrDefault parses an optional template selector.
func templateOrDefault(s string, fallback types.Template) types.Template {
	if s == "" {
		return fallback
	}
	return types.ParseTemplate(s)
}

// jobDescriptionFor returns the text of req, fetching the posting when only a URL is given.
func (s *Server) jobDescriptionFor(r *http.Request, req *TailorRequest) (string, error) {
	if strings.TrimSpace(req.JobDescription) != "" {
		return req.JobDescription, nil
	}
	if s.jobs == nil {
		return "", &ErrUnavailable{Feature: "job posting fetch"}
	}
	posting, err := s.jobs.JobDescription(r.Context(), req.JobURL)
	if err != nil {
		return "", err
	}
	if s.verbose {
		log.Printf("[SERVER] fetched %d chars of job description from %s (cached=%v)", len(posting.Text), posting.URL, posting.FromCache)
	}
	return posting.Text, nil
}

var _ JobDescriber = (*fetch.JobFetcher)(nil)
