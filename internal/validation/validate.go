package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
)

// Result is the outcome of validating a document. FieldErrors is keyed by field path
// (see Path) and is never nil.
type Result struct {
	IsValid     bool              `json:"isValid"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// ErrorFor returns the message recorded for path, or "".
func (r Result) ErrorFor(path string) string {
	return r.FieldErrors[path]
}

// Invalid builds a Result that carries the given errors and is never valid, even when
// errs is empty.
func Invalid(errs map[string]string) Result {
	if errs == nil {
		errs = map[string]string{}
	}
	return Result{IsValid: false, FieldErrors: errs}
}

// Validate checks every section of doc. Experience is only checked for templates that show it.
// It has no side effects and never panics; a nil doc is validated as an empty document.
func Validate(doc *types.ResumeDocument, tmpl types.Template) Result {
	if doc == nil {
		doc = &types.ResumeDocument{}
	}

	errs := fieldErrors{}

	checkEntry(errs, PersonalFields, &doc.Personal, PersonalPath)

	for i, skill := range doc.Skills {
		checkSkill(errs, i, skill)
	}

	if tmpl.ShowsExperience() {
		for i := range doc.Experience {
			checkExperienceEntry(errs, i, &doc.Experience[i])
		}
	}

	for i := range doc.Projects {
		checkProjectEntry(errs, i, &doc.Projects[i])
	}

	if len(doc.Education) > types.MaxEducationEntries {
		errs.add(string(SectionEducation), fmt.Sprintf("At most %d education entries are allowed", types.MaxEducationEntries))
	}
	for i := range doc.Education {
		checkEducationEntry(errs, i, &doc.Education[i])
	}

	return Result{IsValid: len(errs) == 0, FieldErrors: errs}
}

// fieldErrors keeps the first message recorded for each path.
type fieldErrors map[string]string

func (fe fieldErrors) add(path, msg string) {
	if msg == "" {
		return
	}
	if _, exists := fe[path]; !exists {
		fe[path] = msg
	}
}

func checkEntry[T any](errs fieldErrors, fields []Field[T], entry *T, pathFor func(string) string) {
	for _, f := range fields {
		errs.add(pathFor(f.Name), f.Check(f.Get(entry)))
	}
}

func checkSkill(errs fieldErrors, i int, skill string) {
	switch {
	case !IsRequiredFieldFilled(skill):
		errs.add(SkillPath(i), "Skill cannot be empty")
	case utf8.RuneCountInString(skill) > types.MaxSkillLength:
		errs.add(SkillPath(i), fmt.Sprintf("Skill must be at most %d characters", types.MaxSkillLength))
	}
}

func checkTasks(errs fieldErrors, section Section, i int, tasks []string) {
	for j, task := range tasks {
		if !IsRequiredFieldFilled(task) {
			errs.add(TaskPath(section, i, j), "Task cannot be empty")
		}
	}
}

func checkExperienceEntry(errs fieldErrors, i int, e *types.ExperienceEntry) {
	checkEntry(errs, ExperienceFields, e, func(name string) string { return EntryPath(SectionExperience, i, name) })
	checkTasks(errs, SectionExperience, i, e.Tasks)
}

func checkProjectEntry(errs fieldErrors, i int, p *types.ProjectEntry) {
	checkEntry(errs, ProjectFields, p, func(name string) string { return EntryPath(SectionProjects, i, name) })
	checkTasks(errs, SectionProjects, i, p.Tasks)
}

func checkEducationEntry(errs fieldErrors, i int, e *types.EducationEntry) {
	checkEntry(errs, EducationFields, e, func(name string) string { return EntryPath(SectionEducation, i, name) })
}
