package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeUpload(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 15, 500, time.FixedZone("CET", 3600))
	meta := describeUpload("cv.PDF", []byte("%PDF"), "Zoë", at)

	assert.Equal(t, "pdf", meta.Format)
	assert.Equal(t, 4, meta.Bytes)
	assert.Equal(t, 3, meta.TextChars)
	assert.Len(t, meta.SHA256, 64)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 15, 0, time.UTC), meta.ImportedAt)

	other := describeUpload("cv.pdf", []byte("%PDF-1.7"), "", at)
	assert.NotEqual(t, meta.SHA256, other.SHA256)
}

func TestMetadata_JSON(t *testing.T) {
	meta := describeUpload("cv.docx", []byte("x"), "text", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	meta.Model = "gemini"

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "docx", fields["format"])
	assert.Equal(t, "2024-03-01T08:00:00Z", fields["imported_at"])
	assert.Equal(t, "gemini", fields["model"])
}
