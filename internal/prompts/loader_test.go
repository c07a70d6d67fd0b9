package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tmpl, err := Get("tailoring.json", "extract-keywords")
	require.NoError(t, err)
	assert.Contains(t, tmpl, "{{.JobDescription}}")

	_, err = Get("missing.json", "extract-keywords")
	assert.EqualError(t, err, "prompt file missing.json not found")

	_, err = Get("tailoring.json", "missing")
	assert.EqualError(t, err, `prompt key "missing" not found in tailoring.json`)
}

func TestMustGet(t *testing.T) {
	assert.NotEmpty(t, MustGet("tailoring.json", "tailor-resume"))
	assert.Panics(t, func() { MustGet("tailoring.json", "missing") })
}

func TestFormat(t *testing.T) {
	got := Format("Rewrite for {{.Keywords}}: {{.Resume}} ({{.Keywords}})", map[string]string{
		"Keywords": "Go, SQL",
		"Resume":   "{}",
	})
	assert.Equal(t, "Rewrite for Go, SQL: {} (Go, SQL)", got)

	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", nil))
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	got := Format("{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"})
	assert.Equal(t, "{{.B}} b", got)
}

func TestRender(t *testing.T) {
	prompt, err := Render("tailoring.json", "extract-keywords", map[string]string{"JobDescription": "Go engineer"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Go engineer")
	assert.NotContains(t, prompt, "{{.")

	_, err = Render("tailoring.json", "tailor-resume", map[string]string{"Resume": "{}"})
	assert.EqualError(t, err, "prompt tailoring.json/tailor-resume: missing values for JobDescription, Keywords")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"B", "C"}, Placeholders("{{.C}} {{.A}} {{.B}} {{.C}}", map[string]string{"A": ""}))
	assert.Empty(t, Placeholders("no placeholders", nil))
}

func TestNames(t *testing.T) {
	names, err := Names("tailoring.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-keywords", "tailor-resume"}, names)

	_, err = Names("missing.json")
	assert.Error(t, err)
}

func TestEveryPromptRenders(t *testing.T) {
	for _, file := range []string{"tailoring.json", "import.json", "rating.json"} {
		names, err := Names(file)
		require.NoError(t, err, file)
		for _, name := range names {
			tmpl := MustGet(file, name)
			vars := map[string]string{}
			for _, p := range Placeholders(tmpl, nil) {
				vars[p] = "x"
			}
			require.NotEmpty(t, vars, "%s/%s takes no input", file, name)
			_, err := Render(file, name, vars)
			assert.NoError(t, err, "%s/%s", file, name)
		}
	}
}
