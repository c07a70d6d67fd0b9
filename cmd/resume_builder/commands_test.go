package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/resume-builder/internal/llm/llmtest"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	path := writeDocument(t, validDocument())

	out, err := execute(t, "validate", path, "--template", "experienced")
	require.NoError(t, err)
	assert.Contains(t, out, "VALIDATION RESULT")
	assert.Contains(t, out, "✅ valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	doc := validDocument()
	doc.Personal.Email = "not-an-email"
	path := writeDocument(t, doc)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field errors")
	assert.Contains(t, out, "personal.email")
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeDocument(t, validDocument())

	out, err := execute(t, "validate", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"isValid": true`)
	assert.Contains(t, out, `"canAddSkill": true`)
}

func TestValidateCommand_Errors(t *testing.T) {
	_, err := execute(t, "validate")
	assert.Error(t, err)

	_, err = execute(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume file")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"skills": "Go"}`), 0o644))
	_, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a resume document")

	_, err = execute(t, "validate", writeDocument(t, validDocument()), "--template", "modern")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

func TestExportCommand(t *testing.T) {
	useFakes(t, llmtest.New())
	path := writeDocument(t, validDocument())
	outDir := t.TempDir()

	out, err := execute(t, "export", path, "--format", "all", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "EXPORTED FILES")

	docx, err := os.ReadFile(filepath.Join(outDir, "resume.docx"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(docx, []byte("PK")))

	pdf, err := os.ReadFile(filepath.Join(outDir, "resume.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestExportCommand_DOCXOnly(t *testing.T) {
	useFakes(t, llmtest.New())
	path := writeDocument(t, validDocument())
	outDir := t.TempDir()

	_, err := execute(t, "export", path, "-f", "docx", "-o", outDir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "resume.docx"))
	assert.NoFileExists(t, filepath.Join(outDir, "resume.pdf"))
}

func TestExportCommand_Uploads(t *testing.T) {
	useFakes(t, llmtest.New())
	storeDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage_dir = \""+filepath.ToSlash(storeDir)+"\"\n"), 0o644))

	out, err := execute(t, "export", writeDocument(t, validDocument()), "--format", "docx", "--out", t.TempDir(), "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "resume.docx")

	var uploaded []string
	require.NoError(t, filepath.Walk(storeDir, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			uploaded = append(uploaded, info.Name())
		}
		return err
	}))
	assert.Equal(t, []string{"resume.docx"}, uploaded)
}

func TestExportCommand_InvalidDocument(t *testing.T) {
	useFakes(t, llmtest.New())
	doc := validDocument()
	doc.Personal.Phone = ""
	outDir := t.TempDir()

	out, err := execute(t, "export", writeDocument(t, doc), "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please fix all validation errors before exporting.")
	assert.Contains(t, out, "personal.phone")
	assert.NoFileExists(t, filepath.Join(outDir, "resume.docx"))
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "export", writeDocument(t, validDocument()), "--format", "odt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTailorCommand(t *testing.T) {
	client := llmtest.New(
		`{"keywords": ["Go", "Kubernetes"]}`,
		`{"tailoredSummary": "Go engineer.", "tailoredSkills": ["Go", "Kubernetes"]}`,
	)
	useFakes(t, client)

	jobFile := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(jobFile, []byte("Backend engineer. Go and Kubernetes required."), 0o644))
	outFile := filepath.Join(t.TempDir(), "out", "tailored.json")

	out, err := execute(t, "tailor", writeDocument(t, validDocument()), "--job", jobFile, "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "TAILORED RESUME")
	assert.Contains(t, out, "+ Kubernetes")
	assert.Contains(t, out, "- SQL")

	doc := readDocumentFile(t, outFile)
	assert.Equal(t, "Go engineer.", doc.Personal.Summary)
	assert.Equal(t, []string{"Go", "Kubernetes"}, doc.Skills)
	assert.Equal(t, "Ada Lovelace", doc.Personal.Name)
	assert.Contains(t, client.Calls[1].Prompt, "Kubernetes required")
}

func TestTailorCommand_Flags(t *testing.T) {
	useFakes(t, llmtest.New())
	path := writeDocument(t, validDocument())
	outFile := filepath.Join(t.TempDir(), "tailored.json")

	_, err := execute(t, "tailor", path, "--out", outFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of the flags in the group [job job-url] is required")

	_, err = execute(t, "tailor", path, "--job", "job.txt", "--job-url", "https://example.com", "--out", outFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "if any flags in the group [job job-url] are set none of the others can be")

	_, err = execute(t, "tailor", path, "--job", "job.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "out" not set`)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = execute(t, "tailor", path, "--job", empty, "--out", outFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is required")
}

func TestImportCommand(t *testing.T) {
	client := llmtest.New(`{
  "personal": {"name": "Ada Lovelace", "email": "ada@example.com", "phone": "123-456-7890", "address": "London", "summary": "Analyst."},
  "skills": ["Go", "Rust"],
  "education": [{"institution": "University of London", "graduationDate": "06/2015", "course": "Mathematics"}]
}`)
	useFakes(t, client)

	dir := t.TempDir()
	src := filepath.Join(dir, "ada.txt")
	require.NoError(t, os.WriteFile(src, []byte("Ada Lovelace\nada@example.com\n"), 0o644))
	outFile := filepath.Join(dir, "ada.json")
	metaFile := filepath.Join(dir, "ada.meta.json")

	out, err := execute(t, "import", src, "--out", outFile, "--metadata", metaFile)
	require.NoError(t, err)
	assert.Contains(t, out, "IMPORTED RESUME")
	assert.Contains(t, out, "ada.txt")

	doc := readDocumentFile(t, outFile)
	assert.Equal(t, "Ada Lovelace", doc.Personal.Name)
	assert.Equal(t, []string{"Go", "Rust"}, doc.Skills)
	assert.Equal(t, []types.ProjectEntry{}, doc.Projects)

	meta, err := os.ReadFile(metaFile)
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"filename": "ada.txt"`)
}

func TestImportCommand_Unsupported(t *testing.T) {
	client := llmtest.New()
	useFakes(t, client)

	src := filepath.Join(t.TempDir(), "ada.png")
	require.NoError(t, os.WriteFile(src, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	_, err := execute(t, "import", src, "--out", filepath.Join(t.TempDir(), "ada.json"))
	require.Error(t, err)
	assert.Equal(t, 0, client.CallCount())
}

func TestRateCommand(t *testing.T) {
	useFakes(t, llmtest.New(`{"score": 104, "feedback": "Strong resume."}`))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 10, "Ada Lovelace Analyst")
	src := filepath.Join(t.TempDir(), "ada.pdf")
	require.NoError(t, pdf.OutputFileAndClose(src))

	out, err := execute(t, "rate", src)
	require.NoError(t, err)
	assert.Contains(t, out, "RESUME RATING")
	assert.Contains(t, out, "100/100")
	assert.Contains(t, out, "Strong resume.")
}

func TestRateCommand_OnlyPDF(t *testing.T) {
	useFakes(t, llmtest.New())

	src := filepath.Join(t.TempDir(), "ada.docx")
	require.NoError(t, os.WriteFile(src, []byte("PK"), 0o644))

	_, err := execute(t, "rate", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only PDF files are allowed.")
}
