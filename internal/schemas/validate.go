// Package schemas provides JSON Schema validation of resume documents and LLM responses.
package schemas

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/resume-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// FieldError is one schema violation. Field uses bracketed indexes, e.g. "skills[1]".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the violations of a document, ordered by field.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s schema: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError reports a schema that does not compile.
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s does not compile: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

// DocumentError reports input that is not well-formed JSON.
type DocumentError struct {
	Cause error
}

func (e *DocumentError) Error() string { return fmt.Sprintf("malformed JSON document: %v", e.Cause) }

func (e *DocumentError) Unwrap() error { return e.Cause }

// Schema is a JSON Schema compiled on first use.
type Schema struct {
	name   string
	source []byte

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

// New returns a Schema for source. Compilation errors surface from Validate.
func New(name string, source []byte) *Schema {
	return &Schema{name: name, source: source}
}

var (
	resumeSchema = New("resume", schemafiles.Resume)
	patchSchema  = New("tailoring_patch", schemafiles.TailoringPatch)
)

// ValidateResumeJSON validates a resume document.
func ValidateResumeJSON(data []byte) error { return resumeSchema.Validate(data) }

// ValidatePatchJSON validates a tailoring response.
func ValidatePatchJSON(data []byte) error { return patchSchema.Validate(data) }

// Validate checks data against the schema. Violations come back as *ValidationError.
func (s *Schema) Validate(data []byte) error {
	s.once.Do(func() {
		s.compiled, s.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(s.source))
	})
	if s.err != nil {
		return &SchemaLoadError{Name: s.name, Cause: s.err}
	}

	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &DocumentError{Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: s.name}
	for _, re := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: FieldPath(re.Field()), Message: re.Description()})
	}
	sort.SliceStable(ve.Errors, func(i, j int) bool { return ve.Errors[i].Field < ve.Errors[j].Field })
	return ve
}

var arrayIndex = regexp.MustCompile(`\.(\d+)`)

// FieldPath turns a gojsonschema field such as "experience.0.tasks.1" into
// "experience[0].tasks[1]".
func FieldPath(field string) string {
	if field == "" || field == "(root)" {
		return "(root)"
	}
	return arrayIndex.ReplaceAllString(field, "[$1]")
}
