package validation

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *types.ResumeDocument {
	return &types.ResumeDocument{
		Personal: types.Personal{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Phone:   "123-456-7890",
			Address: "London",
			Summary: "Analyst",
		},
		Skills: []string{"Go", "SQL"},
		Experience: []types.ExperienceEntry{{
			JobTitle:  "Engineer",
			Company:   "Acme",
			StartDate: "01/2020",
			EndDate:   "02/2022",
			Location:  "Remote",
			Tasks:     []string{"Shipped the thing"},
		}},
		Projects: []types.ProjectEntry{{Name: "Engine", Tasks: []string{"Designed it"}}},
		Education: []types.EducationEntry{{
			Institution:    "University of London",
			GraduationDate: "06/2015",
			Course:         "Mathematics",
		}},
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	for _, tmpl := range []types.Template{types.TemplateFreshie, types.TemplateExperienced} {
		t.Run(string(tmpl), func(t *testing.T) {
			result := Validate(validDocument(), tmpl)
			assert.True(t, result.IsValid)
			assert.NotNil(t, result.FieldErrors)
			assert.Empty(t, result.FieldErrors)
		})
	}
}

func TestValidate_NilDocument(t *testing.T) {
	var result Result
	require.NotPanics(t, func() { result = Validate(nil, types.TemplateFreshie) })

	assert.False(t, result.IsValid)
	assert.Equal(t, "Name is required", result.ErrorFor("personal.name"))
	assert.Equal(t, "Email is required", result.ErrorFor("personal.email"))
	assert.Equal(t, "Phone is required", result.ErrorFor("personal.phone"))
	assert.Equal(t, "Address is required", result.ErrorFor("personal.address"))
	assert.Empty(t, result.ErrorFor("personal.summary"))
	assert.Empty(t, result.ErrorFor("personal.linkedin"))
}

func TestValidate_IsPure(t *testing.T) {
	doc := validDocument()
	doc.Personal.Email = "bad"
	doc.Skills = append(doc.Skills, "")
	before := doc.Clone()

	first := Validate(doc, types.TemplateExperienced)
	second := Validate(doc, types.TemplateExperienced)

	assert.Equal(t, first, second)
	assert.Equal(t, before, *doc)
}

func TestValidate_PersonalFormats(t *testing.T) {
	doc := validDocument()
	doc.Personal.Email = "a@b"
	doc.Personal.Phone = "12345"

	result := Validate(doc, types.TemplateFreshie)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please enter a valid email address", result.ErrorFor("personal.email"))
	assert.Equal(t, "Phone number must contain at least 10 digits", result.ErrorFor("personal.phone"))
	assert.Len(t, result.FieldErrors, 2)
}

func TestValidate_LengthCaps(t *testing.T) {
	doc := validDocument()
	doc.Personal.Summary = strings.Repeat("s", types.MaxSummaryLength+1)
	doc.Personal.Address = strings.Repeat("a", types.MaxAddressLength+1)

	result := Validate(doc, types.TemplateFreshie)
	assert.Equal(t, "Summary must be at most 300 characters", result.ErrorFor("personal.summary"))
	assert.Equal(t, "Address must be at most 50 characters", result.ErrorFor("personal.address"))

	doc.Personal.Summary = strings.Repeat("é", types.MaxSummaryLength)
	doc.Personal.Address = "London"
	assert.True(t, Validate(doc, types.TemplateFreshie).IsValid, "caps count characters, not bytes")
}

func TestValidate_Skills(t *testing.T) {
	doc := validDocument()
	doc.Skills = []string{"Go", "  ", strings.Repeat("x", 51)}

	result := Validate(doc, types.TemplateFreshie)
	assert.Equal(t, "Skill cannot be empty", result.ErrorFor("skills[1]"))
	assert.Equal(t, "Skill must be at most 50 characters", result.ErrorFor("skills[2]"))
	assert.Empty(t, result.ErrorFor("skills[0]"))

	doc.Skills = nil
	assert.True(t, Validate(doc, types.TemplateFreshie).IsValid, "empty skill list is valid")
}

func TestValidate_ExperienceOnlyForExperiencedTemplate(t *testing.T) {
	doc := validDocument()
	doc.Experience[0].StartDate = "2020-01"
	doc.Experience[0].Company = ""
	doc.Experience[0].Tasks = []string{"ok", ""}

	freshie := Validate(doc, types.TemplateFreshie)
	assert.True(t, freshie.IsValid, "freshie ignores populated experience")

	experienced := Validate(doc, types.TemplateExperienced)
	assert.False(t, experienced.IsValid)
	assert.Equal(t, "Date must be in MM/YYYY format", experienced.ErrorFor("experience[0].startDate"))
	assert.Equal(t, "Company is required", experienced.ErrorFor("experience[0].company"))
	assert.Equal(t, "Task cannot be empty", experienced.ErrorFor("experience[0].tasks[1]"))
	assert.Empty(t, experienced.ErrorFor("experience[0].location"), "location is optional")
}

func TestValidate_Projects(t *testing.T) {
	doc := validDocument()
	doc.Projects = append(doc.Projects, types.ProjectEntry{Name: " ", Tasks: []string{""}})

	result := Validate(doc, types.TemplateFreshie)
	assert.Equal(t, "Project name is required", result.ErrorFor("projects[1].name"))
	assert.Equal(t, "Task cannot be empty", result.ErrorFor("projects[1].tasks[0]"))
}

func TestValidate_Education(t *testing.T) {
	doc := validDocument()
	doc.Education[0].GraduationDate = "6/2015"
	doc.Education[0].Course = ""

	result := Validate(doc, types.TemplateFreshie)
	assert.Equal(t, "Date must be in MM/YYYY format", result.ErrorFor("education[0].graduationDate"))
	assert.Equal(t, "Course is required", result.ErrorFor("education[0].course"))
}

func TestValidate_TooManyEducationEntries(t *testing.T) {
	doc := validDocument()
	entry := doc.Education[0]
	doc.Education = []types.EducationEntry{entry, entry, entry}

	result := Validate(doc, types.TemplateFreshie)
	assert.False(t, result.IsValid)
	assert.Equal(t, "At most 2 education entries are allowed", result.ErrorFor("education"))
}

func TestInvalid(t *testing.T) {
	result := Invalid(nil)
	assert.False(t, result.IsValid)
	assert.NotNil(t, result.FieldErrors)
}
