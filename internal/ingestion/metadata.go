package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes an imported file. It is reported next to the parsed document and can
// be written beside it by the CLI.
type Metadata struct {
	Filename   string    `json:"filename"`
	Format     string    `json:"format"`
	Bytes      int       `json:"bytes"`
	SHA256     string    `json:"sha256"`
	TextChars  int       `json:"text_chars"`
	Model      string    `json:"model,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

func describeUpload(filename string, data []byte, text string, at time.Time) *Metadata {
	sum := sha256.Sum256(data)
	return &Metadata{
		Filename:   filename,
		Format:     FormatOf(filename),
		Bytes:      len(data),
		SHA256:     hex.EncodeToString(sum[:]),
		TextChars:  utf8.RuneCountInString(text),
		ImportedAt: at.UTC().Truncate(time.Second),
	}
}
