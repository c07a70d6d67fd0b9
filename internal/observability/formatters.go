// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintValidation outputs the validation status, the field errors sorted by path and the
// add-entry gates.
func (p *Printer) PrintValidation(result validation.Result, gates validation.Gates) {
	var sb strings.Builder

	if result.IsValid {
		sb.WriteString("Status:   ✅ valid\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status:   ⚠ %d field errors\n", len(result.FieldErrors)))
	}
	sb.WriteString("\n")

	if len(result.FieldErrors) > 0 {
		paths := make([]string, 0, len(result.FieldErrors))
		for path := range result.FieldErrors {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", path))
			sb.WriteString(fmt.Sprintf("  %s\n", result.FieldErrors[path]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Add actions:\n")
	sb.WriteString(fmt.Sprintf("  %s skills\n", gateMark(gates.Skills)))
	sb.WriteString(fmt.Sprintf("  %s experience\n", gateMark(gates.Experience)))
	sb.WriteString(fmt.Sprintf("  %s projects\n", gateMark(gates.Projects)))
	sb.WriteString(fmt.Sprintf("  %s education", gateMark(gates.Education)))

	p.printBox("VALIDATION RESULT", sb.String())
}

func gateMark(enabled bool) string {
	if enabled {
		return "✓"
	}
	return "✗"
}

// PrintTailoring outputs what a tailoring pass changed: the summary before and after, and the
// skills that were added or dropped.
func (p *Printer) PrintTailoring(before, after types.ResumeDocument) {
	var sb strings.Builder

	sb.WriteString("Summary (before):\n")
	sb.WriteString(fmt.Sprintf("  %s\n", orNone(before.Personal.Summary)))
	sb.WriteString("Summary (after):\n")
	sb.WriteString(fmt.Sprintf("  %s\n", orNone(after.Personal.Summary)))
	sb.WriteString("\n")

	added, dropped := diffSkills(before.Skills, after.Skills)
	sb.WriteString(fmt.Sprintf("Skills:   %d -> %d\n", len(before.Skills), len(after.Skills)))
	writeList(&sb, "+", added)
	writeList(&sb, "-", dropped)

	sb.WriteString(fmt.Sprintf("Projects: %d rewritten\n", changedProjects(before.Projects, after.Projects)))
	sb.WriteString(fmt.Sprintf("Experience: %d rewritten", changedExperience(before.Experience, after.Experience)))

	p.printBox("TAILORED RESUME", sb.String())
}

func writeList(sb *strings.Builder, mark string, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// diffSkills compares case-insensitively and keeps the order of the input lists.
func diffSkills(before, after []string) (added, dropped []string) {
	seen := func(list []string) map[string]bool {
		m := make(map[string]bool, len(list))
		for _, s := range list {
			m[strings.ToLower(strings.TrimSpace(s))] = true
		}
		return m
	}
	had, has := seen(before), seen(after)

	for _, s := range after {
		if !had[strings.ToLower(strings.TrimSpace(s))] {
			added = append(added, s)
		}
	}
	for _, s := range before {
		if !has[strings.ToLower(strings.TrimSpace(s))] {
			dropped = append(dropped, s)
		}
	}
	return added, dropped
}

func changedProjects(before, after []types.ProjectEntry) int {
	n := 0
	for i := range after {
		if i >= len(before) || !equalStrings(before[i].Tasks, after[i].Tasks) || before[i].Name != after[i].Name {
			n++
		}
	}
	return n
}

func changedExperience(before, after []types.ExperienceEntry) int {
	n := 0
	for i := range after {
		if i >= len(before) || !equalStrings(before[i].Tasks, after[i].Tasks) || before[i].JobTitle != after[i].JobTitle {
			n++
		}
	}
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PrintRating outputs a resume score with its feedback.
func (p *Printer) PrintRating(rating *types.Rating) {
	if rating == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", rating.Score))
	if rating.Feedback != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(rating.Feedback, boxWidth-6))
	}

	p.printBox("RESUME RATING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImport outputs the source metadata and a section count of an imported resume.
func (p *Printer) PrintImport(result *ingestion.Result) {
	if result == nil {
		return
	}

	doc := result.Document
	var sb strings.Builder
	if meta := result.Metadata; meta != nil {
		sb.WriteString(fmt.Sprintf("File:     %s (%s)\n", meta.Filename, meta.Format))
		sb.WriteString(fmt.Sprintf("Text:     %d chars\n", meta.TextChars))
		if meta.Model != "" {
			sb.WriteString(fmt.Sprintf("Model:    %s\n", meta.Model))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Name:       %s\n", orNone(doc.Personal.Name)))
	sb.WriteString(fmt.Sprintf("Skills:     %d\n", len(doc.Skills)))
	sb.WriteString(fmt.Sprintf("Experience: %d\n", len(doc.Experience)))
	sb.WriteString(fmt.Sprintf("Projects:   %d\n", len(doc.Projects)))
	sb.WriteString(fmt.Sprintf("Education:  %d", len(doc.Education)))

	p.printBox("IMPORTED RESUME", sb.String())
}

// PrintArtifacts outputs one line per exported file.
func (p *Printer) PrintArtifacts(artifacts []*export.Artifact) {
	if len(artifacts) == 0 {
		return
	}

	var sb strings.Builder
	for i, a := range artifacts {
		if a == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("• %s (%d bytes)", a.Filename, len(a.Data)))
		if a.Location != "" {
			sb.WriteString(fmt.Sprintf("\n  %s", a.Location))
		}
		if i < len(artifacts)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXPORTED FILES", sb.String())
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var sb strings.Builder
	for _, para := range strings.Split(text, "\n") {
		line := 0
		for _, word := range strings.Fields(para) {
			n := utf8.RuneCountInString(word)
			if line > 0 && line+1+n > width {
				sb.WriteString("\n")
				line = 0
			}
			if line > 0 {
				sb.WriteString(" ")
				line++
			}
			sb.WriteString(word)
			line += n
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
