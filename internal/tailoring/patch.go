package tailoring

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// ApplyPatch returns a copy of doc with the tailored content merged in. The summary is
// replaced when the patch carries a non-blank one, skills when the patch list is non-empty.
// Projects and experience are replaced only when non-empty and the entry count is unchanged,
// so a model that drops or invents entries cannot change the shape of the resume.
func ApplyPatch(doc types.ResumeDocument, patch *types.Patch) types.ResumeDocument {
	out := doc.Clone()
	if patch == nil {
		return out
	}

	if strings.TrimSpace(patch.Summary) != "" {
		out.Personal.Summary = patch.Summary
	}

	if len(patch.Skills) > 0 {
		out.Skills = append([]string{}, patch.Skills...)
	}

	if len(patch.Projects) > 0 && len(patch.Projects) == len(doc.Projects) {
		out.Projects = make([]types.ProjectEntry, len(patch.Projects))
		for i, p := range patch.Projects {
			out.Projects[i] = p.Clone()
			if out.Projects[i].Tasks == nil {
				out.Projects[i].Tasks = []string{}
			}
		}
	}

	if len(patch.Experience) > 0 && len(patch.Experience) == len(doc.Experience) {
		out.Experience = make([]types.ExperienceEntry, len(patch.Experience))
		for i, e := range patch.Experience {
			out.Experience[i] = e.Clone()
			if out.Experience[i].Tasks == nil {
				out.Experience[i].Tasks = []string{}
			}
		}
	}

	return out
}
