package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/resume-builder/internal/llm/llmtest"
	"github.com/jonathan/resume-builder/internal/rating"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parsedResume = `{
  "personal": {"name": "Ada Lovelace", "email": "ada@example.com", "phone": "123-456-7890", "address": "London", "summary": "Analyst."},
  "skills": ["Go", "go", "Rust"],
  "experience": [],
  "projects": [{"name": "Engine", "tasks": ["Designed it"]}],
  "education": [{"institution": "University of London", "graduationDate": "06/2015", "course": "Mathematics"}]
}`

const resumeText = "Ada Lovelace\nada@example.com\nSkills: Go, Rust\n"

func resumePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 10, "Ada Lovelace Analyst")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestImport(t *testing.T) {
	client := llmtest.New(parsedResume)
	s := newTestServer(t, Options{LLM: client})

	req := multipartRequest(t, "/import", "ada.txt", []byte(resumeText), map[string]string{"template": "experienced"})
	w := serve(s, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody[ImportResponse](t, w)
	assert.Equal(t, types.TemplateExperienced, resp.Session.Template)
	assert.Equal(t, "Ada Lovelace", resp.Session.Document.Personal.Name)
	assert.Equal(t, []string{"Go", "Rust"}, resp.Session.Document.Skills)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "ada.txt", resp.Metadata.Filename)
	assert.Equal(t, "fake-standard", resp.Metadata.Model)
	assert.Contains(t, client.Calls[0].Prompt, "Ada Lovelace")

	w = do(t, s, http.MethodGet, "/sessions/"+resp.Session.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImport_Errors(t *testing.T) {
	t.Run("no model configured", func(t *testing.T) {
		s := newTestServer(t, Options{})
		w := serve(s, multipartRequest(t, "/import", "ada.txt", []byte(resumeText), nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	client := llmtest.New()
	s := newTestServer(t, Options{LLM: client})

	tests := []struct {
		name     string
		filename string
		data     []byte
		fields   map[string]string
		want     int
	}{
		{name: "no file", want: http.StatusBadRequest},
		{name: "empty file", filename: "ada.txt", want: http.StatusBadRequest},
		{name: "unsupported format", filename: "ada.png", data: []byte{0x89, 'P', 'N', 'G'}, want: http.StatusUnsupportedMediaType},
		{name: "not utf8", filename: "ada.txt", data: []byte{0xff, 0xfe, 0xfd}, want: http.StatusUnprocessableEntity},
		{name: "bad template", filename: "ada.txt", data: []byte(resumeText), fields: map[string]string{"template": "modern"}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, multipartRequest(t, "/import", tt.filename, tt.data, tt.fields))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 0, client.CallCount())

	t.Run("not multipart", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/import", map[string]any{"file": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRate(t *testing.T) {
	client := llmtest.New(`{"score": 78.6, "feedback": "Quantify your impact."}`)
	s := newTestServer(t, Options{LLM: client})

	w := serve(s, multipartRequest(t, "/rate", "ada.pdf", resumePDF(t), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.Rating](t, w)
	assert.Equal(t, 79, resp.Score)
	assert.Equal(t, "Quantify your impact.", resp.Feedback)
}

func TestRate_Errors(t *testing.T) {
	t.Run("no model configured", func(t *testing.T) {
		s := newTestServer(t, Options{})
		w := serve(s, multipartRequest(t, "/rate", "ada.pdf", resumePDF(t), nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	s := newTestServer(t, Options{LLM: llmtest.New()})

	w := serve(s, multipartRequest(t, "/rate", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, rating.NoFileMessage, errorMessage(t, w))

	w = serve(s, multipartRequest(t, "/rate", "ada.docx", []byte("PK"), nil))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, rating.OnlyPDFMessage, errorMessage(t, w))
}

func multipartRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}
