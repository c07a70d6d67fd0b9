// Package docx models a word-processing document as a small object tree and packs it into
// an OOXML (.docx) archive.
package docx

import "strings"

// Page geometry in twips (1/1440 inch).
const (
	PageWidthA4   = 11906
	PageHeightA4  = 16838
	DefaultMargin = 720
	// ContentWidth is the usable width of an A4 page with default margins.
	ContentWidth = PageWidthA4 - 2*DefaultMargin
)

// Margins are page margins in twips.
type Margins struct {
	Top, Right, Bottom, Left int
}

// DefaultMargins returns 720-twip margins on every side.
func DefaultMargins() Margins {
	return Margins{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin}
}

// Document is a single-section document.
type Document struct {
	Margins Margins
	Body    []Block
}

// New returns an empty document with default margins.
func New() *Document {
	return &Document{Margins: DefaultMargins()}
}

// Add appends blocks to the body.
func (d *Document) Add(blocks ...Block) {
	d.Body = append(d.Body, blocks...)
}

// Block is a body-level element: *Paragraph or *Table.
type Block interface {
	block()
}

// Inline is a paragraph child: Run, Tab or Hyperlink.
type Inline interface {
	inline()
}

// Alignment is a paragraph justification.
type Alignment string

// Paragraph alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TabStop positions a tab in twips from the left margin.
type TabStop struct {
	Align    Alignment
	Position int
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Style       string
	Align       Alignment
	TabStops    []TabStop
	Bullet      bool
	SpaceBefore int
	SpaceAfter  int
	Children    []Inline
}

func (*Paragraph) block() {}

// NewParagraph returns a paragraph holding children.
func NewParagraph(children ...Inline) *Paragraph {
	return &Paragraph{Children: children}
}

// Run is a span of text with uniform formatting. Size is in half-points; zero keeps the
// style default.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Size      int
	Color     string
}

func (Run) inline() {}

// Tab advances to the next tab stop.
type Tab struct{}

func (Tab) inline() {}

// Hyperlink wraps runs in an external link.
type Hyperlink struct {
	URL  string
	Runs []Run
}

func (Hyperlink) inline() {}

// BorderStyle is an OOXML border value.
type BorderStyle string

// Border styles.
const (
	BorderNone   BorderStyle = "nil"
	BorderSingle BorderStyle = "single"
)

// Border is one edge of a table. Size is in eighths of a point.
type Border struct {
	Style BorderStyle
	Size  int
	Color string
}

// TableBorders are the outer and inner borders of a table. A zero Border is drawn as none.
type TableBorders struct {
	Top, Left, Bottom, Right, InsideH, InsideV Border
}

// Table is a grid of cells. Widths are column widths in twips.
type Table struct {
	Widths  []int
	Borders TableBorders
	Rows    []Row
}

func (*Table) block() {}

// Row is a table row.
type Row struct {
	Cells []Cell
}

// Cell holds paragraphs. An empty cell is written with one empty paragraph.
type Cell struct {
	Paragraphs []*Paragraph
}

// Text flattens the document to plain text: one line per paragraph, tabs as "\t", table
// cells separated by "\t" and rows by newlines.
func (d *Document) Text() string {
	var lines []string
	for _, b := range d.Body {
		switch v := b.(type) {
		case *Paragraph:
			lines = append(lines, v.Text())
		case *Table:
			for _, row := range v.Rows {
				cells := make([]string, len(row.Cells))
				for i, c := range row.Cells {
					cells[i] = c.Text()
				}
				lines = append(lines, strings.Join(cells, "\t"))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Text returns the paragraph's text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, c := range p.Children {
		switch v := c.(type) {
		case Run:
			sb.WriteString(v.Text)
		case Tab:
			sb.WriteByte('\t')
		case Hyperlink:
			for _, r := range v.Runs {
				sb.WriteString(r.Text)
			}
		}
	}
	return sb.String()
}

// Text returns the cell's paragraphs joined by spaces.
func (c Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, " ")
}

// Paragraphs returns the top-level paragraphs of the body in order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Body {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the tables of the body in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Body {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}
