// Package types provides type definitions for structured data used throughout the resume-builder system.
package types

import "strings"

// Template selects the layout and content variant of a resume.
type Template string

const (
	// TemplateFreshie is the graduate layout: no work experience section, centered headers.
	TemplateFreshie Template = "freshie"
	// TemplateExperienced is the professional layout with a work experience section.
	TemplateExperienced Template = "experienced"
)

// DefaultTemplate is used when no template has been selected.
const DefaultTemplate = TemplateFreshie

// ParseTemplate converts a stored selector into a Template, falling back to DefaultTemplate
// for empty or unknown values.
func ParseTemplate(s string) Template {
	switch Template(strings.ToLower(strings.TrimSpace(s))) {
	case TemplateExperienced:
		return TemplateExperienced
	case TemplateFreshie:
		return TemplateFreshie
	default:
		return DefaultTemplate
	}
}

// Valid reports whether t is one of the known templates.
func (t Template) Valid() bool {
	return t == TemplateFreshie || t == TemplateExperienced
}

// ShowsExperience reports whether the work experience section is editable and rendered.
func (t Template) ShowsExperience() bool {
	return t == TemplateExperienced
}

// Personal holds the contact block and summary of a resume.
type Personal struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin,omitempty"`
	Summary  string `json:"summary"`
}

// ExperienceEntry is a single role in the work experience section.
type ExperienceEntry struct {
	JobTitle  string   `json:"jobTitle"`
	Company   string   `json:"company"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Location  string   `json:"location"`
	Tasks     []string `json:"tasks"`
}

// ProjectEntry is a single project with its task bullets.
type ProjectEntry struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// EducationEntry is a single institution in the education section.
type EducationEntry struct {
	Institution    string `json:"institution"`
	GraduationDate string `json:"graduationDate"`
	Course         string `json:"course"`
	Location       string `json:"location"`
}

// ResumeDocument is the root aggregate edited during a session.
type ResumeDocument struct {
	Personal   Personal          `json:"personal"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Education  []EducationEntry  `json:"education"`
	Template   Template          `json:"template,omitempty"`
}

// Section limits shared by the editor, validation and import normalisation.
const (
	MaxSummaryLength    = 300
	MaxAddressLength    = 50
	MaxSkillLength      = 50
	MaxEducationEntries = 2
)

// NewResumeDocument returns the default document a new editing session starts from:
// empty sections and a single blank education entry.
func NewResumeDocument(tmpl Template) ResumeDocument {
	return ResumeDocument{
		Skills:     []string{},
		Experience: []ExperienceEntry{},
		Projects:   []ProjectEntry{},
		Education:  []EducationEntry{{}},
		Template:   tmpl,
	}
}

// Clone returns a deep copy. Snapshots kept for undo must never share slices with the live document.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Skills = cloneStrings(d.Skills)

	if d.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(d.Experience))
		for i, e := range d.Experience {
			out.Experience[i] = e.Clone()
		}
	}

	if d.Projects != nil {
		out.Projects = make([]ProjectEntry, len(d.Projects))
		for i, p := range d.Projects {
			out.Projects[i] = p.Clone()
		}
	}

	if d.Education != nil {
		out.Education = make([]EducationEntry, len(d.Education))
		copy(out.Education, d.Education)
	}

	return out
}

// Clone returns a deep copy of the entry.
func (e ExperienceEntry) Clone() ExperienceEntry {
	e.Tasks = cloneStrings(e.Tasks)
	return e
}

// Clone returns a deep copy of the entry.
func (p ProjectEntry) Clone() ProjectEntry {
	p.Tasks = cloneStrings(p.Tasks)
	return p
}

// DateRange formats the start and end dates as shown on the rendered resume.
func (e ExperienceEntry) DateRange() string {
	switch {
	case e.StartDate == "" && e.EndDate == "":
		return ""
	case e.EndDate == "":
		return e.StartDate
	case e.StartDate == "":
		return e.EndDate
	default:
		return e.StartDate + " - " + e.EndDate
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
