// Package pdfexport assembles an A4 portrait PDF from a raster snapshot of the preview.
package pdfexport

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"
)

// A4 page size in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Options sets document metadata.
type Options struct {
	Title   string
	Author  string
	Creator string
}

// Error represents a PDF assembly failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FromImage embeds a PNG snapshot into an A4 PDF. The image is scaled to the page width; a
// snapshot taller than one page is cut into page-height strips, one per page, and the last
// strip keeps its proportional height.
func FromImage(pngData []byte, opts Options) ([]byte, error) {
	if len(pngData) == 0 {
		return nil, &Error{Message: "empty image"}
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, &Error{Message: "failed to decode PNG snapshot", Cause: err}
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &Error{Message: "image has no pixels"}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}

	imageOpts := fpdf.ImageOptions{ImageType: "PNG"}
	strips := Strips(bounds.Dx(), bounds.Dy())

	for i, strip := range strips {
		data := pngData
		if len(strips) > 1 {
			data, err = encodeStrip(img, strip)
			if err != nil {
				return nil, &Error{Message: fmt.Sprintf("failed to encode page %d", i+1), Cause: err}
			}
		}

		name := fmt.Sprintf("page%d", i+1)
		pdf.RegisterImageOptionsReader(name, imageOpts, bytes.NewReader(data))

		height := PageHeightMM
		if len(strips) > 1 {
			height = PageHeightMM * float64(strip.Dy()) / pageHeightPx(bounds.Dx())
		}

		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, PageWidthMM, height, false, imageOpts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, &Error{Message: "failed to build PDF", Cause: err}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, &Error{Message: "failed to write PDF", Cause: err}
	}
	if out.Len() == 0 {
		return nil, &Error{Message: "PDF output is empty"}
	}
	return out.Bytes(), nil
}

// Strips splits an image of the given pixel size into page-height rectangles. An image no
// taller than one page yields a single strip covering it.
func Strips(width, height int) []image.Rectangle {
	pageH := pageHeightPx(width)
	if float64(height) <= pageH+1 {
		return []image.Rectangle{image.Rect(0, 0, width, height)}
	}

	n := int(math.Ceil(float64(height) / pageH))
	strips := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		top := int(math.Round(float64(i) * pageH))
		bottom := int(math.Round(float64(i+1) * pageH))
		if bottom > height {
			bottom = height
		}
		if bottom <= top {
			break
		}
		strips = append(strips, image.Rect(0, top, width, bottom))
	}
	return strips
}

// pageHeightPx is the pixel height of one A4 page for an image of the given width.
func pageHeightPx(width int) float64 {
	return float64(width) * PageHeightMM / PageWidthMM
}

func encodeStrip(src image.Image, r image.Rectangle) ([]byte, error) {
	origin := src.Bounds().Min
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, origin.Add(r.Min), draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
