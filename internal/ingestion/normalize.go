package ingestion

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Normalize trims every field, applies the length caps the editor enforces, drops blank
// skills and tasks, and keeps at most two education entries. Nil sections become empty.
func Normalize(doc *types.ResumeDocument) {
	normalizeFields(validation.PersonalFields, &doc.Personal)

	skills := make([]string, 0, len(doc.Skills))
	seen := make(map[string]bool, len(doc.Skills))
	for _, s := range doc.Skills {
		s = truncateRunes(strings.TrimSpace(s), types.MaxSkillLength)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	doc.Skills = skills

	if doc.Experience == nil {
		doc.Experience = []types.ExperienceEntry{}
	}
	for i := range doc.Experience {
		normalizeFields(validation.ExperienceFields, &doc.Experience[i])
		doc.Experience[i].Tasks = normalizeTasks(doc.Experience[i].Tasks)
	}

	if doc.Projects == nil {
		doc.Projects = []types.ProjectEntry{}
	}
	for i := range doc.Projects {
		normalizeFields(validation.ProjectFields, &doc.Projects[i])
		doc.Projects[i].Tasks = normalizeTasks(doc.Projects[i].Tasks)
	}

	if len(doc.Education) > types.MaxEducationEntries {
		doc.Education = doc.Education[:types.MaxEducationEntries]
	}
	if len(doc.Education) == 0 {
		doc.Education = []types.EducationEntry{{}}
	}
	for i := range doc.Education {
		normalizeFields(validation.EducationFields, &doc.Education[i])
	}
}

func normalizeFields[T any](fields []validation.Field[T], entry *T) {
	for _, f := range fields {
		v := strings.TrimSpace(f.Get(entry))
		if f.MaxLen > 0 {
			v = truncateRunes(v, f.MaxLen)
		}
		f.Set(entry, v)
	}
}

func normalizeTasks(tasks []string) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
