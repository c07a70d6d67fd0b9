package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path"
	"sync/atomic"
	"testing"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct {
	calls atomic.Int32
	html  atomic.Value
	err   error
}

func (f *fakeRasterizer) Capture(ctx context.Context, html string, opts rasterize.Options) ([]byte, error) {
	f.calls.Add(1)
	f.html.Store(html)
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 794, 1123))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validEditor() *editor.Editor {
	doc := types.ResumeDocument{
		Personal: types.Personal{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "123-456-7890", Address: "London"},
		Skills:   []string{"Go"},
	}
	return editor.NewWithDocument(doc, types.TemplateFreshie, nil)
}

func TestService_DOCX(t *testing.T) {
	svc := &Service{}
	a, err := svc.DOCX(context.Background(), validEditor())
	require.NoError(t, err)

	assert.Equal(t, "resume.docx", a.Filename)
	assert.Equal(t, DOCXContentType, a.ContentType)
	assert.NotEmpty(t, a.Data)
	assert.Empty(t, a.Location)
}

func TestService_PDF(t *testing.T) {
	raster := &fakeRasterizer{}
	svc := &Service{Rasterizer: raster}

	a, err := svc.PDF(context.Background(), validEditor())
	require.NoError(t, err)

	assert.Equal(t, "resume.pdf", a.Filename)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF-")))
	assert.Equal(t, int32(1), raster.calls.Load())
	assert.Contains(t, raster.html.Load().(string), "Ada Lovelace")
}

func TestService_RejectsInvalidForm(t *testing.T) {
	e := editor.New(types.TemplateFreshie, nil)
	raster := &fakeRasterizer{}
	svc := &Service{Rasterizer: raster}

	for name, run := range map[string]func() (*Artifact, error){
		"docx": func() (*Artifact, error) { return svc.DOCX(context.Background(), e) },
		"pdf":  func() (*Artifact, error) { return svc.PDF(context.Background(), e) },
	} {
		t.Run(name, func(t *testing.T) {
			a, err := run()
			assert.Nil(t, a)
			var preErr *rendering.PreconditionError
			require.True(t, errors.As(err, &preErr))
			assert.Equal(t, FormInvalidMessage, preErr.Message)
		})
	}
	assert.Equal(t, int32(0), raster.calls.Load())
}

func TestService_RasterFailure(t *testing.T) {
	cause := errors.New("chrome crashed")
	svc := &Service{Rasterizer: &fakeRasterizer{err: cause}}

	_, err := svc.PDF(context.Background(), validEditor())
	var exportErr *rendering.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, rendering.ExportFailedMessage, exportErr.Message)
	assert.ErrorIs(t, err, cause)
}

func TestService_ExportAllUploads(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		Rasterizer: &fakeRasterizer{},
		Store:      storage.NewFileStore(dir),
		KeyPrefix:  "exports",
	}

	artifacts, err := svc.Export(context.Background(), validEditor(), FormatDOCX, FormatPDF)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, DOCXFilename, artifacts[0].Filename)
	assert.Equal(t, PDFFilename, artifacts[1].Filename)
	for _, a := range artifacts {
		require.NotEmpty(t, a.Location)
		data, err := os.ReadFile(a.Location)
		require.NoError(t, err)
		assert.Equal(t, a.Data, data)
	}
}

type recordingStore struct {
	keys []string
}

func (r *recordingStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	r.keys = append(r.keys, key)
	return "mem://" + key, nil
}

func TestService_ExportUploadsNothingOnPartialFailure(t *testing.T) {
	store := &recordingStore{}
	svc := &Service{
		Rasterizer: &fakeRasterizer{err: errors.New("chrome crashed")},
		Store:      store,
	}

	artifacts, err := svc.Export(context.Background(), validEditor(), FormatDOCX, FormatPDF)
	require.Error(t, err)
	assert.Nil(t, artifacts)
	assert.Empty(t, store.keys, "docx must not be uploaded when pdf fails")
}

func TestService_ExportUploadsUnderOneID(t *testing.T) {
	store := &recordingStore{}
	svc := &Service{Rasterizer: &fakeRasterizer{}, Store: store, KeyPrefix: "exports"}

	artifacts, err := svc.Export(context.Background(), validEditor(), FormatDOCX, FormatPDF)
	require.NoError(t, err)
	require.Len(t, store.keys, 2)
	assert.Equal(t, path.Dir(store.keys[0]), path.Dir(store.keys[1]))
	assert.Equal(t, "mem://"+store.keys[1], artifacts[1].Location)
}

func TestService_ExportUnknownFormat(t *testing.T) {
	_, err := (&Service{}).Export(context.Background(), validEditor(), Format("odt"))
	var preErr *rendering.PreconditionError
	assert.True(t, errors.As(err, &preErr))
}
