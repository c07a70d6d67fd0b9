package ingestion

import (
	"bytes"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported upload formats, named by extension.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
)

// FormatOf returns the upload format of filename, or "" when it is not supported.
func FormatOf(filename string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext {
	case FormatPDF, FormatDOCX, FormatTXT:
		return ext
	default:
		return ""
	}
}

// ExtractText returns the plain text of an uploaded resume, chosen by file extension.
func ExtractText(filename string, data []byte) (string, error) {
	switch FormatOf(filename) {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	case FormatTXT:
		if !utf8.Valid(data) {
			return "", &ExtractError{Format: FormatTXT, Message: "file is not UTF-8 text"}
		}
		return CleanText(string(data)), nil
	default:
		return "", &UnsupportedFormatError{Filename: filename, Ext: filepath.Ext(filename)}
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Format: FormatPDF, Message: "failed to read pdf", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractError{Format: FormatPDF, Message: "failed to read page text", Cause: err}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return CleanText(sb.String()), nil
}

var (
	docxBreak = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	docxTag   = regexp.MustCompile(`<[^>]*>`)
)

// extractDOCX reads word/document.xml and flattens it to text, one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Format: FormatDOCX, Message: "failed to parse docx", Cause: err}
	}
	defer func() { _ = r.Close() }()

	content := r.Editable().GetContent()
	content = docxBreak.ReplaceAllStringFunc(content, func(tag string) string {
		if tag == "<w:tab/>" {
			return " "
		}
		return "\n"
	})
	content = docxTag.ReplaceAllString(content, "")
	return CleanText(html.UnescapeString(content)), nil
}
