// Package export produces the downloadable artifacts of an editing session.
package export

import (
	"context"
	"log"
	"path"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/pdfexport"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validity"
	"golang.org/x/sync/errgroup"
)

// Fixed artifact names.
const (
	PDFFilename  = "resume.pdf"
	DOCXFilename = "resume.docx"

	PDFContentType  = "application/pdf"
	DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FormInvalidMessage is returned when exporting while the form has validation errors.
const FormInvalidMessage = "Please fix all validation errors before exporting."

// Format selects an artifact type.
type Format string

// Export formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Artifact is one exported file. Location is set when the service has a store.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Location    string
}

// Source is an editing session as seen by exports. *editor.Editor implements it.
type Source interface {
	Snapshot() types.ResumeDocument
	Template() types.Template
	Flag() *validity.Flag
}

// Service runs exports. A nil Store skips uploading; a nil Rasterizer uses headless Chrome.
type Service struct {
	Rasterizer    rasterize.Rasterizer
	RasterOptions rasterize.Options
	Store         storage.Store
	// KeyPrefix is prepended to upload keys.
	KeyPrefix string
	Verbose   bool
}

// DOCX exports the session as a Word document.
func (s *Service) DOCX(ctx context.Context, src Source) (*Artifact, error) {
	doc, tmpl, err := s.snapshot(src)
	if err != nil {
		return nil, err
	}
	a, err := s.docx(&doc, tmpl)
	if err != nil {
		return nil, err
	}
	return a, s.upload(ctx, uuid.NewString(), a)
}

// PDF exports the session as a PDF built from a raster snapshot of the preview.
func (s *Service) PDF(ctx context.Context, src Source) (*Artifact, error) {
	doc, tmpl, err := s.snapshot(src)
	if err != nil {
		return nil, err
	}
	a, err := s.pdf(ctx, &doc, tmpl)
	if err != nil {
		return nil, err
	}
	return a, s.upload(ctx, uuid.NewString(), a)
}

// Export builds the requested formats concurrently against one snapshot and uploads them
// only once every format has been built. Artifacts are returned in the order of formats.
func (s *Service) Export(ctx context.Context, src Source, formats ...Format) ([]*Artifact, error) {
	doc, tmpl, err := s.snapshot(src)
	if err != nil {
		return nil, err
	}

	artifacts := make([]*Artifact, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			var a *Artifact
			var err error
			switch f {
			case FormatDOCX:
				a, err = s.docx(&doc, tmpl)
			case FormatPDF:
				a, err = s.pdf(gctx, &doc, tmpl)
			default:
				err = &rendering.PreconditionError{Message: "unknown export format: " + string(f)}
			}
			artifacts[i] = a
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.upload(ctx, uuid.NewString(), artifacts...); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// snapshot takes the document once the validity gate passes. Both artifacts of one request
// read the same immutable copy.
func (s *Service) snapshot(src Source) (types.ResumeDocument, types.Template, error) {
	if !src.Flag().Valid() {
		return types.ResumeDocument{}, "", &rendering.PreconditionError{Message: FormInvalidMessage}
	}
	return src.Snapshot(), src.Template(), nil
}

func (s *Service) docx(doc *types.ResumeDocument, tmpl types.Template) (*Artifact, error) {
	data, err := rendering.ExportDOCX(doc, tmpl)
	if err != nil {
		return nil, err
	}
	return built(&Artifact{Filename: DOCXFilename, ContentType: DOCXContentType, Data: data})
}

func (s *Service) pdf(ctx context.Context, doc *types.ResumeDocument, tmpl types.Template) (*Artifact, error) {
	if err := rendering.CheckRequiredPersonal(doc); err != nil {
		return nil, err
	}

	html, err := rendering.RenderPreviewHTML(doc, tmpl)
	if err != nil {
		return nil, exportFailed("preview", err)
	}

	r := s.Rasterizer
	if r == nil {
		r = rasterize.Chrome{}
	}
	opts := s.RasterOptions
	opts.Verbose = opts.Verbose || s.Verbose
	png, err := r.Capture(ctx, html, opts)
	if err != nil {
		return nil, exportFailed("rasterize", err)
	}

	data, err := pdfexport.FromImage(png, pdfexport.Options{Title: doc.Personal.Name, Author: doc.Personal.Name})
	if err != nil {
		return nil, exportFailed("pdf", err)
	}
	return built(&Artifact{Filename: PDFFilename, ContentType: PDFContentType, Data: data})
}

func built(a *Artifact) (*Artifact, error) {
	if len(a.Data) == 0 {
		return nil, exportFailed(a.Filename, nil)
	}
	return a, nil
}

// upload stores artifacts under <KeyPrefix>/<id>/ and records where each one went.
func (s *Service) upload(ctx context.Context, id string, artifacts ...*Artifact) error {
	if s.Store == nil {
		return nil
	}
	for _, a := range artifacts {
		key := path.Join(s.KeyPrefix, id, a.Filename)
		loc, err := s.Store.Put(ctx, key, a.ContentType, a.Data)
		if err != nil {
			return exportFailed("upload", err)
		}
		a.Location = loc
		if s.Verbose {
			log.Printf("[EXPORT] uploaded %s (%d bytes) to %s", a.Filename, len(a.Data), loc)
		}
	}
	return nil
}

func exportFailed(stage string, cause error) error {
	log.Printf("[EXPORT] %s failed: %v", stage, cause)
	return &rendering.ExportError{Message: rendering.ExportFailedMessage, Cause: cause}
}
