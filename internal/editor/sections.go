package editor

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// AddSkill appends an empty skill when every existing skill is valid.
func (e *Editor) AddSkill() error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := e.checkGate(doc, validation.SectionSkills); err != nil {
			return err
		}
		doc.Skills = append(doc.Skills, "")
		return nil
	})
}

// RemoveSkill deletes the i-th skill.
func (e *Editor) RemoveSkill(i int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := checkIndex(validation.SectionSkills, i, len(doc.Skills)); err != nil {
			return err
		}
		doc.Skills = removeAt(doc.Skills, i)
		return nil
	})
}

// AddExperience appends a blank work experience entry.
func (e *Editor) AddExperience() error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := e.requireExperience(); err != nil {
			return err
		}
		if err := e.checkGate(doc, validation.SectionExperience); err != nil {
			return err
		}
		doc.Experience = append(doc.Experience, types.ExperienceEntry{Tasks: []string{}})
		return nil
	})
}

// RemoveExperience deletes the i-th work experience entry.
func (e *Editor) RemoveExperience(i int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := e.requireExperience(); err != nil {
			return err
		}
		if err := checkIndex(validation.SectionExperience, i, len(doc.Experience)); err != nil {
			return err
		}
		doc.Experience = removeAt(doc.Experience, i)
		return nil
	})
}

// AddProject appends a blank project entry.
func (e *Editor) AddProject() error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := e.checkGate(doc, validation.SectionProjects); err != nil {
			return err
		}
		doc.Projects = append(doc.Projects, types.ProjectEntry{Tasks: []string{}})
		return nil
	})
}

// RemoveProject deletes the i-th project entry.
func (e *Editor) RemoveProject(i int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := checkIndex(validation.SectionProjects, i, len(doc.Projects)); err != nil {
			return err
		}
		doc.Projects = removeAt(doc.Projects, i)
		return nil
	})
}

// AddEducation appends a blank education entry. It is refused at the entry limit even
// when the existing entries are valid.
func (e *Editor) AddEducation() error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if len(doc.Education) >= types.MaxEducationEntries {
			return &GateError{
				Section: string(validation.SectionEducation),
				Reason:  fmt.Sprintf("at most %d entries are allowed", types.MaxEducationEntries),
			}
		}
		if err := e.checkGate(doc, validation.SectionEducation); err != nil {
			return err
		}
		doc.Education = append(doc.Education, types.EducationEntry{})
		return nil
	})
}

// RemoveEducation deletes the i-th education entry.
func (e *Editor) RemoveEducation(i int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		if err := checkIndex(validation.SectionEducation, i, len(doc.Education)); err != nil {
			return err
		}
		doc.Education = removeAt(doc.Education, i)
		return nil
	})
}

// AddItem dispatches to the add action of section.
func (e *Editor) AddItem(section validation.Section) error {
	switch section {
	case validation.SectionSkills:
		return e.AddSkill()
	case validation.SectionExperience:
		return e.AddExperience()
	case validation.SectionProjects:
		return e.AddProject()
	case validation.SectionEducation:
		return e.AddEducation()
	default:
		return &GateError{Section: string(section), Reason: "section has no items"}
	}
}

// RemoveItem dispatches to the remove action of section.
func (e *Editor) RemoveItem(section validation.Section, i int) error {
	switch section {
	case validation.SectionSkills:
		return e.RemoveSkill(i)
	case validation.SectionExperience:
		return e.RemoveExperience(i)
	case validation.SectionProjects:
		return e.RemoveProject(i)
	case validation.SectionEducation:
		return e.RemoveEducation(i)
	default:
		return &IndexError{Section: string(section), Index: i}
	}
}

// AddTask appends an empty task to the i-th entry of experience or projects.
func (e *Editor) AddTask(section validation.Section, i int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		tasks, err := e.tasksOf(doc, section, i)
		if err != nil {
			return err
		}
		*tasks = append(*tasks, "")
		return nil
	})
}

// RemoveTask deletes the j-th task of the i-th entry of experience or projects.
func (e *Editor) RemoveTask(section validation.Section, i, j int) error {
	return e.mutate(func(doc *types.ResumeDocument) error {
		tasks, err := e.tasksOf(doc, section, i)
		if err != nil {
			return err
		}
		if err := checkIndex(section+".tasks", j, len(*tasks)); err != nil {
			return err
		}
		*tasks = removeAt(*tasks, j)
		return nil
	})
}

func (e *Editor) tasksOf(doc *types.ResumeDocument, section validation.Section, i int) (*[]string, error) {
	switch section {
	case validation.SectionExperience:
		if err := e.requireExperience(); err != nil {
			return nil, err
		}
		if err := checkIndex(section, i, len(doc.Experience)); err != nil {
			return nil, err
		}
		return &doc.Experience[i].Tasks, nil
	case validation.SectionProjects:
		if err := checkIndex(section, i, len(doc.Projects)); err != nil {
			return nil, err
		}
		return &doc.Projects[i].Tasks, nil
	default:
		return nil, &IndexError{Section: string(section) + ".tasks", Index: i}
	}
}

func (e *Editor) checkGate(doc *types.ResumeDocument, section validation.Section) error {
	if validation.ComputeGates(doc, e.tmpl).Allows(section) {
		return nil
	}
	return &GateError{Section: string(section), Reason: "complete the existing entries first"}
}

// removeAt returns s without its i-th element, never sharing the tail with s.
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
