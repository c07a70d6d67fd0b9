package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	nsMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg  = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeDocument  = nsRel + "/officeDocument"
	relTypeStyles    = nsRel + "/styles"
	relTypeNumbering = nsRel + "/numbering"
	relTypeLink      = nsRel + "/hyperlink"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	bulletNumID = 1
)

// PackError reports a document tree that cannot be written.
type PackError struct {
	Part    string
	Message string
	Cause   error
}

func (e *PackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("docx %s: %s: %v", e.Part, e.Message, e.Cause)
	}
	return fmt.Sprintf("docx %s: %s", e.Part, e.Message)
}

func (e *PackError) Unwrap() error {
	return e.Cause
}

type relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Pack writes doc as a .docx archive.
func Pack(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, &PackError{Part: "document", Message: "nil document"}
	}

	w := &writer{
		rels: []relationship{
			{ID: "rId1", Type: relTypeStyles, Target: "styles.xml"},
			{ID: "rId2", Type: relTypeNumbering, Target: "numbering.xml"},
		},
	}
	if err := w.document(doc); err != nil {
		return nil, err
	}

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML()},
		{"word/document.xml", w.buf.String()},
		{"word/_rels/document.xml.rels", relsXML(w.rels)},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, &PackError{Part: p.name, Message: "create entry", Cause: err}
		}
		if _, err := f.Write([]byte(p.body)); err != nil {
			return nil, &PackError{Part: p.name, Message: "write entry", Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &PackError{Part: "archive", Message: "close", Cause: err}
	}
	return out.Bytes(), nil
}

type writer struct {
	buf  strings.Builder
	rels []relationship
}

func (w *writer) printf(format string, args ...interface{}) {
	fmt.Fprintf(&w.buf, format, args...)
}

func (w *writer) document(doc *Document) error {
	w.buf.WriteString(xmlHeader)
	w.printf(`<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, nsMain, nsRel)

	for i, b := range doc.Body {
		var err error
		switch v := b.(type) {
		case *Paragraph:
			err = w.paragraph(v)
		case *Table:
			err = w.table(v)
		default:
			err = fmt.Errorf("unsupported block %T", b)
		}
		if err != nil {
			return &PackError{Part: "word/document.xml", Message: fmt.Sprintf("block %d", i), Cause: err}
		}
	}

	m := doc.Margins
	w.printf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, PageWidthA4, PageHeightA4)
	w.printf(`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="0" w:footer="0" w:gutter="0"/>`,
		m.Top, m.Right, m.Bottom, m.Left)
	w.buf.WriteString(`</w:sectPr></w:body></w:document>`)
	return nil
}

func (w *writer) paragraph(p *Paragraph) error {
	if p == nil {
		w.buf.WriteString(`<w:p/>`)
		return nil
	}

	w.buf.WriteString(`<w:p><w:pPr>`)
	if p.Style != "" {
		w.printf(`<w:pStyle w:val="%s"/>`, escape(p.Style))
	}
	if p.Bullet {
		w.printf(`<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr>`, bulletNumID)
	}
	if len(p.TabStops) > 0 {
		w.buf.WriteString(`<w:tabs>`)
		for _, ts := range p.TabStops {
			align := ts.Align
			if align == "" {
				align = AlignLeft
			}
			w.printf(`<w:tab w:val="%s" w:pos="%d"/>`, align, ts.Position)
		}
		w.buf.WriteString(`</w:tabs>`)
	}
	if p.SpaceBefore > 0 || p.SpaceAfter > 0 {
		w.printf(`<w:spacing w:before="%d" w:after="%d"/>`, p.SpaceBefore, p.SpaceAfter)
	}
	if p.Align != "" {
		w.printf(`<w:jc w:val="%s"/>`, p.Align)
	}
	w.buf.WriteString(`</w:pPr>`)

	for _, c := range p.Children {
		switch v := c.(type) {
		case Run:
			w.run(v)
		case Tab:
			w.buf.WriteString(`<w:r><w:tab/></w:r>`)
		case Hyperlink:
			if strings.TrimSpace(v.URL) == "" {
				return fmt.Errorf("hyperlink without URL")
			}
			id := w.addLink(v.URL)
			w.printf(`<w:hyperlink r:id="%s" w:history="1">`, id)
			for _, r := range v.Runs {
				w.run(r)
			}
			w.buf.WriteString(`</w:hyperlink>`)
		default:
			return fmt.Errorf("unsupported inline %T", c)
		}
	}

	w.buf.WriteString(`</w:p>`)
	return nil
}

func (w *writer) run(r Run) {
	w.buf.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Underline || r.Size > 0 || r.Color != "" {
		w.buf.WriteString(`<w:rPr>`)
		if r.Bold {
			w.buf.WriteString(`<w:b/>`)
		}
		if r.Italic {
			w.buf.WriteString(`<w:i/>`)
		}
		if r.Color != "" {
			w.printf(`<w:color w:val="%s"/>`, escape(r.Color))
		}
		if r.Size > 0 {
			w.printf(`<w:sz w:val="%d"/>`, r.Size)
		}
		if r.Underline {
			w.buf.WriteString(`<w:u w:val="single"/>`)
		}
		w.buf.WriteString(`</w:rPr>`)
	}
	w.printf(`<w:t xml:space="preserve">%s</w:t></w:r>`, escape(r.Text))
}

func (w *writer) table(t *Table) error {
	cols := len(t.Widths)
	for i, row := range t.Rows {
		if cols == 0 {
			cols = len(row.Cells)
		}
		if len(row.Cells) != cols {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row.Cells), cols)
		}
	}
	if cols == 0 {
		return fmt.Errorf("table without columns")
	}

	widths := t.Widths
	if len(widths) == 0 {
		widths = make([]int, cols)
		for i := range widths {
			widths[i] = ContentWidth / cols
		}
	}

	w.buf.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
	b := t.Borders
	for _, edge := range []struct {
		name   string
		border Border
	}{
		{"top", b.Top}, {"left", b.Left}, {"bottom", b.Bottom},
		{"right", b.Right}, {"insideH", b.InsideH}, {"insideV", b.InsideV},
	} {
		w.border(edge.name, edge.border)
	}
	w.buf.WriteString(`</w:tblBorders><w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	for _, width := range widths {
		w.printf(`<w:gridCol w:w="%d"/>`, width)
	}
	w.buf.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		w.buf.WriteString(`<w:tr>`)
		for i, cell := range row.Cells {
			w.printf(`<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, widths[i])
			if len(cell.Paragraphs) == 0 {
				w.buf.WriteString(`<w:p/>`)
			}
			for _, p := range cell.Paragraphs {
				if err := w.paragraph(p); err != nil {
					return err
				}
			}
			w.buf.WriteString(`</w:tc>`)
		}
		w.buf.WriteString(`</w:tr>`)
	}
	w.buf.WriteString(`</w:tbl>`)
	return nil
}

func (w *writer) border(name string, b Border) {
	if b.Style == "" || b.Style == BorderNone {
		w.printf(`<w:%s w:val="nil"/>`, name)
		return
	}
	color := b.Color
	if color == "" {
		color = "auto"
	}
	w.printf(`<w:%s w:val="%s" w:sz="%d" w:space="0" w:color="%s"/>`, name, b.Style, b.Size, escape(color))
}

func (w *writer) addLink(url string) string {
	id := fmt.Sprintf("rId%d", len(w.rels)+1)
	w.rels = append(w.rels, relationship{ID: id, Type: relTypeLink, Target: url, External: true})
	return id
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func packageRelsXML() string {
	return relsXML([]relationship{{ID: "rId1", Type: relTypeDocument, Target: "word/document.xml"}})
}

func relsXML(rels []relationship) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	fmt.Fprintf(&sb, `<Relationships xmlns="%s">`, nsPkg)
	for _, r := range rels {
		mode := ""
		if r.External {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.ID, r.Type, escape(r.Target), mode)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const contentTypesXML = xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`</Types>`

const stylesXML = xmlHeader +
	`<w:styles xmlns:w="` + nsMain + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/><w:szCs w:val="22"/>` +
	`</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="60" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:qFormat/>` +
	`<w:rPr><w:b/><w:sz w:val="36"/><w:szCs w:val="36"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:spacing w:before="200" w:after="80"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/><w:szCs w:val="24"/></w:rPr></w:style>` +
	`</w:styles>`

const numberingXML = xmlHeader +
	`<w:numbering xmlns:w="` + nsMain + `">` +
	`<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="hybridMultilevel"/>` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/><w:lvlJc w:val="left"/>` +
	`<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`</w:numbering>`
