package validation

import "github.com/jonathan/resume-builder/internal/types"

// Gates reports, per section, whether the "add new entry" action is enabled.
type Gates struct {
	Skills     bool `json:"canAddSkill"`
	Experience bool `json:"canAddExperience"`
	Projects   bool `json:"canAddProject"`
	Education  bool `json:"canAddEducation"`
}

// Allows returns the gate of section. Personal has no add action.
func (g Gates) Allows(section Section) bool {
	switch section {
	case SectionSkills:
		return g.Skills
	case SectionExperience:
		return g.Experience
	case SectionProjects:
		return g.Projects
	case SectionEducation:
		return g.Education
	default:
		return false
	}
}

// ComputeGates evaluates every gating predicate for doc under tmpl.
func ComputeGates(doc *types.ResumeDocument, tmpl types.Template) Gates {
	if doc == nil {
		doc = &types.ResumeDocument{}
	}
	return Gates{
		Skills:     AreSkillsValid(doc.Skills),
		Experience: tmpl.ShowsExperience() && IsWorkExperienceValid(doc.Experience),
		Projects:   IsProjectValid(doc.Projects),
		Education:  len(doc.Education) < types.MaxEducationEntries && IsEducationValid(doc.Education),
	}
}

// The predicates below run the same per-entry checkers as Validate, so an entry is complete
// exactly when Validate reports no error under its path.

// AreSkillsValid reports whether every skill is non-empty and within the length cap.
func AreSkillsValid(skills []string) bool {
	errs := fieldErrors{}
	for i, s := range skills {
		checkSkill(errs, i, s)
	}
	return len(errs) == 0
}

// IsWorkExperienceValid reports whether every experience entry is complete.
func IsWorkExperienceValid(entries []types.ExperienceEntry) bool {
	errs := fieldErrors{}
	for i := range entries {
		checkExperienceEntry(errs, i, &entries[i])
	}
	return len(errs) == 0
}

// IsProjectValid reports whether every project entry is complete.
func IsProjectValid(entries []types.ProjectEntry) bool {
	errs := fieldErrors{}
	for i := range entries {
		checkProjectEntry(errs, i, &entries[i])
	}
	return len(errs) == 0
}

// IsEducationValid reports whether every education entry is complete.
func IsEducationValid(entries []types.EducationEntry) bool {
	errs := fieldErrors{}
	for i := range entries {
		checkEducationEntry(errs, i, &entries[i])
	}
	return len(errs) == 0
}
