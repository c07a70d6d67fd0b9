package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PreviewData represents the data structure passed to the preview template
type PreviewData struct {
	Experienced    bool
	Personal       types.Personal
	Experience     []types.ExperienceEntry
	Skills         []string
	Projects       []types.ProjectEntry
	Education      []types.EducationEntry
	ShowExperience bool
}

var (
	previewOnce sync.Once
	previewTmpl *template.Template
	previewErr  error
)

// parsePreviewTemplate parses the embedded preview template once.
func parsePreviewTemplate() (*template.Template, error) {
	previewOnce.Do(func() {
		tmpl, err := template.New("preview.html.tmpl").Funcs(template.FuncMap{
			"upper":    strings.ToUpper,
			"nonBlank": nonBlank,
			"mailto":   func(email string) template.URL { return template.URL("mailto:" + email) },
		}).ParseFS(templateFS, "templates/preview.html.tmpl")
		if err != nil {
			previewErr = &TemplateError{Message: "failed to parse preview template", Cause: err}
			return
		}
		previewTmpl = tmpl
	})
	return previewTmpl, previewErr
}

// RenderPreviewHTML renders the standalone HTML preview of doc, sized for an A4 page at
// 794 CSS pixels wide. The layout follows the template.
func RenderPreviewHTML(doc *types.ResumeDocument, tmpl types.Template) (string, error) {
	if doc == nil {
		doc = &types.ResumeDocument{}
	}
	parsed, err := parsePreviewTemplate()
	if err != nil {
		return "", err
	}

	tmpl = types.ParseTemplate(string(tmpl))
	personal := doc.Personal
	personal.Summary = strings.TrimSpace(personal.Summary)
	data := PreviewData{
		Experienced:    tmpl == types.TemplateExperienced,
		Personal:       personal,
		Experience:     doc.Experience,
		Skills:         nonBlank(doc.Skills),
		Projects:       doc.Projects,
		Education:      doc.Education,
		ShowExperience: tmpl.ShowsExperience() && len(doc.Experience) > 0,
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", &TemplateError{Message: "failed to execute preview template", Cause: err}
	}
	return buf.String(), nil
}
