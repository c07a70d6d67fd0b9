package validation

import (
	"fmt"
	"regexp"
	"strconv"
)

// Section names a top-level grouping of resume data.
type Section string

// Resume sections, named as they appear in field paths and JSON.
const (
	SectionPersonal   Section = "personal"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionEducation  Section = "education"
)

// ParseSection converts a section name into a Section.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionPersonal, SectionSkills, SectionExperience, SectionProjects, SectionEducation:
		return Section(s), true
	}
	return "", false
}

// HasTasks reports whether entries of the section carry task bullets.
func (s Section) HasTasks() bool {
	return s == SectionExperience || s == SectionProjects
}

// Path addresses a single editable value. Index and Task are -1 when not applicable.
//
//	personal.email           {personal, -1, "email", -1}
//	skills[2]                {skills, 2, "", -1}
//	experience[0].startDate  {experience, 0, "startDate", -1}
//	projects[1].tasks[3]     {projects, 1, "tasks", 3}
type Path struct {
	Section Section
	Index   int
	Field   string
	Task    int
}

func (p Path) String() string {
	switch {
	case p.Section == SectionPersonal:
		return PersonalPath(p.Field)
	case p.Section == SectionSkills:
		return SkillPath(p.Index)
	case p.Task >= 0:
		return TaskPath(p.Section, p.Index, p.Task)
	default:
		return EntryPath(p.Section, p.Index, p.Field)
	}
}

// PersonalPath returns the path of a personal field, e.g. "personal.email".
func PersonalPath(field string) string {
	return fmt.Sprintf("%s.%s", SectionPersonal, field)
}

// SkillPath returns the path of the i-th skill, e.g. "skills[2]".
func SkillPath(i int) string {
	return fmt.Sprintf("%s[%d]", SectionSkills, i)
}

// EntryPath returns the path of a field of the i-th entry, e.g. "education[1].course".
func EntryPath(section Section, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", section, i, field)
}

// TaskPath returns the path of the j-th task of the i-th entry, e.g. "projects[0].tasks[1]".
func TaskPath(section Section, i, j int) string {
	return fmt.Sprintf("%s[%d].tasks[%d]", section, i, j)
}

var (
	personalPathRe = regexp.MustCompile(`^personal\.(\w+)$`)
	skillPathRe    = regexp.MustCompile(`^skills\[(\d+)\]$`)
	entryPathRe    = regexp.MustCompile(`^(experience|projects|education)\[(\d+)\]\.(\w+)$`)
	taskPathRe     = regexp.MustCompile(`^(experience|projects)\[(\d+)\]\.tasks\[(\d+)\]$`)
)

// ParsePath parses a field path. Field names are checked against the section schema.
func ParsePath(s string) (Path, error) {
	if m := personalPathRe.FindStringSubmatch(s); m != nil {
		if _, ok := lookupField(PersonalFields, m[1]); !ok {
			return Path{}, &PathError{Path: s, Message: "unknown personal field"}
		}
		return Path{Section: SectionPersonal, Index: -1, Field: m[1], Task: -1}, nil
	}

	if m := skillPathRe.FindStringSubmatch(s); m != nil {
		i, _ := strconv.Atoi(m[1])
		return Path{Section: SectionSkills, Index: i, Task: -1}, nil
	}

	if m := taskPathRe.FindStringSubmatch(s); m != nil {
		i, _ := strconv.Atoi(m[2])
		j, _ := strconv.Atoi(m[3])
		return Path{Section: Section(m[1]), Index: i, Field: "tasks", Task: j}, nil
	}

	if m := entryPathRe.FindStringSubmatch(s); m != nil {
		section := Section(m[1])
		i, _ := strconv.Atoi(m[2])
		if !sectionHasField(section, m[3]) {
			return Path{}, &PathError{Path: s, Message: fmt.Sprintf("unknown %s field", section)}
		}
		return Path{Section: section, Index: i, Field: m[3], Task: -1}, nil
	}

	return Path{}, &PathError{Path: s, Message: "unrecognised path"}
}

func sectionHasField(section Section, name string) bool {
	var ok bool
	switch section {
	case SectionExperience:
		_, ok = lookupField(ExperienceFields, name)
	case SectionProjects:
		_, ok = lookupField(ProjectFields, name)
	case SectionEducation:
		_, ok = lookupField(EducationFields, name)
	}
	return ok
}
