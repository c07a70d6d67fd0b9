package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n  \n  ", ""},
		{"collapses spaces", "Ada    Lovelace   |  London", "Ada Lovelace | London"},
		{"line endings", "SKILLS\r\nGo\rRust", "SKILLS\nGo\nRust"},
		{"blank runs", "EXPERIENCE\n\n\n\n\nInitech", "EXPERIENCE\n\nInitech"},
		{"heading dedented", "   # Projects\nCompiler", "# Projects\nCompiler"},
		{"bullets untouched", "Tasks\n  - Wrote   a parser\n• Shipped", "Tasks\n  - Wrote   a parser\n• Shipped"},
		{"indent kept", "Initech\n    Built  things", "Initech\n    Built things"},
		{"tabs in indent", "\tNested", "Nested"},
		{"trailing blanks", "Go   \t\nRust  ", "Go\nRust"},
		{"unicode", "Zoë  Müller 🚀", "Zoë Müller 🚀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	once := CleanText("Summary   with   spaces\n\n\n- bullet\n   # Head")
	assert.Equal(t, once, CleanText(once))
}
