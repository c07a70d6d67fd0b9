package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"personal.email", Path{Section: SectionPersonal, Index: -1, Field: "email", Task: -1}},
		{"skills[2]", Path{Section: SectionSkills, Index: 2, Task: -1}},
		{"experience[0].startDate", Path{Section: SectionExperience, Index: 0, Field: "startDate", Task: -1}},
		{"experience[0].tasks[1]", Path{Section: SectionExperience, Index: 0, Field: "tasks", Task: 1}},
		{"projects[3].name", Path{Section: SectionProjects, Index: 3, Field: "name", Task: -1}},
		{"education[1].course", Path{Section: SectionEducation, Index: 1, Field: "course", Task: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"personal.age",
		"skills",
		"skills[-1]",
		"education[0].tasks[0]",
		"projects[0].company",
		"hobbies[0].name",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePath(in)
			require.Error(t, err)
			var pathErr *PathError
			assert.True(t, errors.As(err, &pathErr))
		})
	}
}

func TestSectionHelpers(t *testing.T) {
	s, ok := ParseSection("projects")
	assert.True(t, ok)
	assert.Equal(t, SectionProjects, s)

	_, ok = ParseSection("hobbies")
	assert.False(t, ok)

	assert.True(t, SectionExperience.HasTasks())
	assert.True(t, SectionProjects.HasTasks())
	assert.False(t, SectionEducation.HasTasks())
}
