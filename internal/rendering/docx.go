package rendering

import (
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/docx"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Section titles, in output order.
const (
	titleSummary    = "Summary"
	titleExperience = "Work Experience"
	titleSkills     = "Skills"
	titleProjects   = "Projects"
	titleEducation  = "Education"
)

const (
	ruleChar       = "─"
	ruleLineWidth  = 90
	ruleMinSegment = 15

	nameSize   = 36
	linkColor  = "0563C1"
	ruleBorder = 6
)

// ExportDOCX builds and packs the document. Library failures are logged and returned as
// *ExportError with a generic message.
func ExportDOCX(doc *types.ResumeDocument, tmpl types.Template) ([]byte, error) {
	tree, err := BuildDOCX(doc, tmpl)
	if err != nil {
		return nil, err
	}

	data, err := docx.Pack(tree)
	if err != nil {
		log.Printf("[EXPORT] docx pack failed: %v", err)
		return nil, &ExportError{Message: ExportFailedMessage, Cause: err}
	}
	if len(data) == 0 {
		log.Printf("[EXPORT] docx pack produced an empty archive")
		return nil, &ExportError{Message: ExportFailedMessage}
	}
	return data, nil
}

// BuildDOCX converts doc into a document tree. It fails with *PreconditionError before
// building anything when a required personal field is missing.
func BuildDOCX(doc *types.ResumeDocument, tmpl types.Template) (*docx.Document, error) {
	if err := CheckRequiredPersonal(doc); err != nil {
		return nil, err
	}
	tmpl = types.ParseTemplate(string(tmpl))

	b := &docxBuilder{doc: docx.New(), tmpl: tmpl}
	b.header(doc.Personal)
	b.rule()

	if summary := strings.TrimSpace(doc.Personal.Summary); summary != "" {
		b.sectionHeader(titleSummary)
		b.doc.Add(docx.NewParagraph(docx.Run{Text: summary}))
	}
	if tmpl.ShowsExperience() && len(doc.Experience) > 0 {
		b.sectionHeader(titleExperience)
		for _, e := range doc.Experience {
			b.twoLineEntry(e.Company, e.DateRange(), e.JobTitle, e.Location)
			b.bullets(e.Tasks)
		}
	}
	if skills := nonBlank(doc.Skills); len(skills) > 0 {
		b.sectionHeader(titleSkills)
		b.doc.Add(skillsTable(skills))
	}
	if len(doc.Projects) > 0 {
		b.sectionHeader(titleProjects)
		for _, p := range doc.Projects {
			b.doc.Add(docx.NewParagraph(docx.Run{Text: p.Name, Bold: true}))
			b.bullets(p.Tasks)
		}
	}
	if len(doc.Education) > 0 {
		b.sectionHeader(titleEducation)
		for _, e := range doc.Education {
			b.twoLineEntry(e.Institution, e.GraduationDate, e.Course, e.Location)
		}
	}

	return b.doc, nil
}

// CheckRequiredPersonal reports the missing contact fields every export needs.
func CheckRequiredPersonal(doc *types.ResumeDocument) error {
	if doc == nil {
		doc = &types.ResumeDocument{}
	}
	var missing []string
	for _, f := range validation.PersonalFields {
		if f.Required && !validation.IsRequiredFieldFilled(f.Get(&doc.Personal)) {
			missing = append(missing, validation.PersonalPath(f.Name))
		}
	}
	if len(missing) > 0 {
		return &PreconditionError{
			Message: "Please fill in name, email, phone and address before exporting.",
			Missing: missing,
		}
	}
	return nil
}

type docxBuilder struct {
	doc  *docx.Document
	tmpl types.Template
}

func (b *docxBuilder) header(p types.Personal) {
	align := docx.AlignCenter
	if b.tmpl == types.TemplateExperienced {
		align = docx.AlignLeft
	}
	b.doc.Add(&docx.Paragraph{
		Style:    "Title",
		Align:    align,
		Children: []docx.Inline{docx.Run{Text: p.Name, Bold: true, Size: nameSize}},
	})

	if b.tmpl == types.TemplateExperienced {
		b.doc.Add(
			&docx.Paragraph{Align: docx.AlignLeft, Children: []docx.Inline{link("mailto:"+p.Email, p.Email)}},
			&docx.Paragraph{Align: docx.AlignLeft, Children: []docx.Inline{docx.Run{Text: p.Phone}}},
			&docx.Paragraph{Align: docx.AlignLeft, Children: []docx.Inline{docx.Run{Text: p.Address}}},
		)
		if linkedIn := strings.TrimSpace(p.LinkedIn); linkedIn != "" {
			b.doc.Add(&docx.Paragraph{Align: docx.AlignLeft, Children: []docx.Inline{link(linkedIn, linkedIn)}})
		}
		return
	}

	contact := strings.Join([]string{p.Email, p.Phone, p.Address}, " | ")
	b.doc.Add(&docx.Paragraph{Align: docx.AlignCenter, Children: []docx.Inline{docx.Run{Text: contact}}})
	if linkedIn := strings.TrimSpace(p.LinkedIn); linkedIn != "" {
		b.doc.Add(&docx.Paragraph{Align: docx.AlignCenter, Children: []docx.Inline{link(linkedIn, linkedIn)}})
	}
}

// rule emits the horizontal rule under the header: a one-cell table with only a bottom border.
func (b *docxBuilder) rule() {
	b.doc.Add(&docx.Table{
		Widths: []int{docx.ContentWidth},
		Rows:   []docx.Row{{Cells: []docx.Cell{{}}}},
		Borders: docx.TableBorders{
			Bottom: docx.Border{Style: docx.BorderSingle, Size: ruleBorder, Color: "000000"},
		},
	})
}

func (b *docxBuilder) sectionHeader(title string) {
	title = strings.ToUpper(title)

	if b.tmpl == types.TemplateExperienced {
		b.doc.Add(&docx.Paragraph{
			Style:    "Heading1",
			Align:    docx.AlignLeft,
			Children: []docx.Inline{docx.Run{Text: title, Bold: true, Underline: true}},
		})
		return
	}

	segment := strings.Repeat(ruleChar, RuleSegmentLength(title))
	b.doc.Add(&docx.Paragraph{
		Style: "Heading1",
		Align: docx.AlignCenter,
		Children: []docx.Inline{
			docx.Run{Text: segment},
			docx.Run{Text: " " + title + " ", Bold: true},
			docx.Run{Text: segment},
		},
	})
}

// RuleSegmentLength is the number of rule characters on each side of a centered section title.
func RuleSegmentLength(title string) int {
	n := (ruleLineWidth - len(title) - 2) / 2
	if n < ruleMinSegment {
		return ruleMinSegment
	}
	return n
}

// twoLineEntry writes "primary<TAB>date" and "secondary<TAB>location" with a right tab stop
// at the content edge.
func (b *docxBuilder) twoLineEntry(primary, date, secondary, location string) {
	stops := []docx.TabStop{{Align: docx.AlignRight, Position: docx.ContentWidth}}
	b.doc.Add(
		&docx.Paragraph{
			TabStops: stops,
			Children: []docx.Inline{docx.Run{Text: primary, Bold: true}, docx.Tab{}, docx.Run{Text: date}},
		},
		&docx.Paragraph{
			TabStops: stops,
			Children: []docx.Inline{docx.Run{Text: secondary, Italic: true}, docx.Tab{}, docx.Run{Text: location}},
		},
	)
}

func (b *docxBuilder) bullets(tasks []string) {
	for _, task := range nonBlank(tasks) {
		b.doc.Add(&docx.Paragraph{Bullet: true, Children: []docx.Inline{docx.Run{Text: task}}})
	}
}

// skillsTable pairs consecutive skills in a borderless two-column table.
func skillsTable(skills []string) *docx.Table {
	half := docx.ContentWidth / 2
	t := &docx.Table{Widths: []int{half, half}}
	for i := 0; i < len(skills); i += 2 {
		row := docx.Row{Cells: []docx.Cell{skillCell(skills[i]), {}}}
		if i+1 < len(skills) {
			row.Cells[1] = skillCell(skills[i+1])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func skillCell(skill string) docx.Cell {
	return docx.Cell{Paragraphs: []*docx.Paragraph{{Bullet: true, Children: []docx.Inline{docx.Run{Text: skill}}}}}
}

func link(url, text string) docx.Hyperlink {
	return docx.Hyperlink{URL: url, Runs: []docx.Run{{Text: text, Underline: true, Color: linkColor}}}
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
