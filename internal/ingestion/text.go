package ingestion

import (
	"strings"
)

var bulletMarks = []string{"- ", "* ", "• ", "· "}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// CleanText normalizes text extracted from an upload. Lines are kept so the parser still
// sees headings and bullets: trailing blanks go, inner space runs collapse except inside
// bullets, and at most one empty line separates blocks.
func CleanText(content string) string {
	lines := strings.Split(lineEndings.Replace(content), "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = tidyLine(line)
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func tidyLine(line string) string {
	line = strings.TrimRight(line, " \t")
	body := strings.TrimLeft(line, " \t")
	if body == "" {
		return ""
	}
	indent := strings.Repeat(" ", len(line)-len(body))

	switch {
	case strings.HasPrefix(body, "#"):
		return body
	case isBullet(body):
		return indent + body
	default:
		return indent + strings.Join(strings.Fields(body), " ")
	}
}

func isBullet(line string) bool {
	for _, mark := range bulletMarks {
		if strings.HasPrefix(line, mark) {
			return true
		}
	}
	return false
}
