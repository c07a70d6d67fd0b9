package validation

import (
	"encoding/json"
	"errors"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ValidateJSON checks raw resume JSON structurally before decoding it, then validates the
// decoded document. Structural problems are reported as field errors and the returned
// document is nil. Like Validate it never returns a Go error.
func ValidateJSON(data []byte, tmpl types.Template) (Result, *types.ResumeDocument) {
	if err := schemas.ValidateResumeJSON(data); err != nil {
		return Invalid(schemaFieldErrors(err)), nil
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Invalid(map[string]string{"(root)": err.Error()}), nil
	}

	return Validate(&doc, tmpl), &doc
}

func schemaFieldErrors(err error) map[string]string {
	errs := fieldErrors{}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			errs.add(fe.Field, fe.Message)
		}
		return errs
	}

	errs.add("(root)", err.Error())
	return errs
}
