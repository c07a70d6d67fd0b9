package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
)

// Kind selects the format check applied to a field value.
type Kind int

// Field kinds.
const (
	KindText Kind = iota
	KindLongText
	KindEmail
	KindPhone
	KindDate
	KindURL
)

// Field describes one editable string field of a section entry of type T.
// The validator, the editor and the import normaliser all iterate these lists instead of
// reflecting over struct fields.
type Field[T any] struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	MaxLen   int
	Get      func(*T) string
	Set      func(*T, string)
}

// Check returns the error message for value, or "" when the value is acceptable.
func (f Field[T]) Check(value string) string {
	if !IsRequiredFieldFilled(value) {
		if f.Required {
			return fmt.Sprintf("%s is required", f.Label)
		}
		return ""
	}

	if f.MaxLen > 0 && utf8.RuneCountInString(value) > f.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLen)
	}

	switch f.Kind {
	case KindEmail:
		if !IsValidEmail(value) {
			return "Please enter a valid email address"
		}
	case KindPhone:
		if !IsValidPhone(value) {
			return fmt.Sprintf("Phone number must contain at least %d digits", MinPhoneDigits)
		}
	case KindDate:
		if !IsValidDateFormat(value) {
			return "Date must be in MM/YYYY format"
		}
	}

	return ""
}

// PersonalFields is the schema of the personal section.
var PersonalFields = []Field[types.Personal]{
	{
		Name: "name", Label: "Name", Kind: KindText, Required: true,
		Get: func(p *types.Personal) string { return p.Name },
		Set: func(p *types.Personal, v string) { p.Name = v },
	},
	{
		Name: "email", Label: "Email", Kind: KindEmail, Required: true,
		Get: func(p *types.Personal) string { return p.Email },
		Set: func(p *types.Personal, v string) { p.Email = v },
	},
	{
		Name: "phone", Label: "Phone", Kind: KindPhone, Required: true,
		Get: func(p *types.Personal) string { return p.Phone },
		Set: func(p *types.Personal, v string) { p.Phone = v },
	},
	{
		Name: "address", Label: "Address", Kind: KindText, Required: true, MaxLen: types.MaxAddressLength,
		Get: func(p *types.Personal) string { return p.Address },
		Set: func(p *types.Personal, v string) { p.Address = v },
	},
	{
		Name: "linkedin", Label: "LinkedIn", Kind: KindURL,
		Get: func(p *types.Personal) string { return p.LinkedIn },
		Set: func(p *types.Personal, v string) { p.LinkedIn = v },
	},
	{
		Name: "summary", Label: "Summary", Kind: KindLongText, MaxLen: types.MaxSummaryLength,
		Get: func(p *types.Personal) string { return p.Summary },
		Set: func(p *types.Personal, v string) { p.Summary = v },
	},
}

// ExperienceFields is the schema of a work experience entry, excluding tasks.
var ExperienceFields = []Field[types.ExperienceEntry]{
	{
		Name: "jobTitle", Label: "Job title", Kind: KindText, Required: true,
		Get: func(e *types.ExperienceEntry) string { return e.JobTitle },
		Set: func(e *types.ExperienceEntry, v string) { e.JobTitle = v },
	},
	{
		Name: "company", Label: "Company", Kind: KindText, Required: true,
		Get: func(e *types.ExperienceEntry) string { return e.Company },
		Set: func(e *types.ExperienceEntry, v string) { e.Company = v },
	},
	{
		Name: "startDate", Label: "Start date", Kind: KindDate, Required: true,
		Get: func(e *types.ExperienceEntry) string { return e.StartDate },
		Set: func(e *types.ExperienceEntry, v string) { e.StartDate = v },
	},
	{
		Name: "endDate", Label: "End date", Kind: KindDate, Required: true,
		Get: func(e *types.ExperienceEntry) string { return e.EndDate },
		Set: func(e *types.ExperienceEntry, v string) { e.EndDate = v },
	},
	{
		Name: "location", Label: "Location", Kind: KindText,
		Get: func(e *types.ExperienceEntry) string { return e.Location },
		Set: func(e *types.ExperienceEntry, v string) { e.Location = v },
	},
}

// ProjectFields is the schema of a project entry, excluding tasks.
var ProjectFields = []Field[types.ProjectEntry]{
	{
		Name: "name", Label: "Project name", Kind: KindText, Required: true,
		Get: func(p *types.ProjectEntry) string { return p.Name },
		Set: func(p *types.ProjectEntry, v string) { p.Name = v },
	},
}

// EducationFields is the schema of an education entry.
var EducationFields = []Field[types.EducationEntry]{
	{
		Name: "institution", Label: "Institution", Kind: KindText, Required: true,
		Get: func(e *types.EducationEntry) string { return e.Institution },
		Set: func(e *types.EducationEntry, v string) { e.Institution = v },
	},
	{
		Name: "graduationDate", Label: "Graduation date", Kind: KindDate, Required: true,
		Get: func(e *types.EducationEntry) string { return e.GraduationDate },
		Set: func(e *types.EducationEntry, v string) { e.GraduationDate = v },
	},
	{
		Name: "course", Label: "Course", Kind: KindText, Required: true,
		Get: func(e *types.EducationEntry) string { return e.Course },
		Set: func(e *types.EducationEntry, v string) { e.Course = v },
	},
	{
		Name: "location", Label: "Location", Kind: KindText,
		Get: func(e *types.EducationEntry) string { return e.Location },
		Set: func(e *types.EducationEntry, v string) { e.Location = v },
	},
}

// LookupPersonalField returns the descriptor of a personal field by name.
func LookupPersonalField(name string) (Field[types.Personal], bool) {
	return lookupField(PersonalFields, name)
}

// LookupExperienceField returns the descriptor of an experience field by name.
func LookupExperienceField(name string) (Field[types.ExperienceEntry], bool) {
	return lookupField(ExperienceFields, name)
}

// LookupProjectField returns the descriptor of a project field by name.
func LookupProjectField(name string) (Field[types.ProjectEntry], bool) {
	return lookupField(ProjectFields, name)
}

// LookupEducationField returns the descriptor of an education field by name.
func LookupEducationField(name string) (Field[types.EducationEntry], bool) {
	return lookupField(EducationFields, name)
}

func lookupField[T any](fields []Field[T], name string) (Field[T], bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}
