// Package rasterize captures the HTML preview as a PNG snapshot in headless Chrome.
package rasterize

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 page size in CSS pixels at 96 dpi.
const (
	A4Width  = 794
	A4Height = 1123
)

// DefaultScale is the device scale factor used for captures.
const DefaultScale = 2

// DefaultTimeout bounds a whole capture including browser start-up.
const DefaultTimeout = 30 * time.Second

// Options configures a capture.
type Options struct {
	Width   int
	Height  int
	Scale   float64
	Timeout time.Duration
	Verbose bool
}

// DefaultOptions returns an A4 viewport at scale 2.
func DefaultOptions() Options {
	return Options{
		Width:   A4Width,
		Height:  A4Height,
		Scale:   DefaultScale,
		Timeout: DefaultTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// Error represents a failed capture.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rasterize error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rasterize error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Rasterizer turns an HTML document into a PNG image.
type Rasterizer interface {
	Capture(ctx context.Context, html string, opts Options) ([]byte, error)
}

// Chrome captures with a local Chrome or Chromium. The zero value uses the browser found on
// the PATH.
type Chrome struct {
	ExecPath string
}

// Capture renders with the default Chrome rasterizer.
func Capture(ctx context.Context, html string, opts Options) ([]byte, error) {
	return Chrome{}.Capture(ctx, html, opts)
}

// Capture loads html into a blank page sized to the viewport and takes a full-page PNG
// screenshot. Content taller than the viewport is included.
func (c Chrome) Capture(ctx context.Context, html string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if opts.Verbose {
		log.Printf("[RASTERIZE] Capturing %d bytes of HTML at %dx%d scale %.1f", len(html), opts.Width, opts.Height, opts.Scale)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height), chromedp.EmulateScale(opts.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		// quality 100 selects PNG
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, &Error{Message: "browser capture failed", Cause: err}
	}
	if len(png) == 0 {
		return nil, &Error{Message: "browser returned an empty screenshot"}
	}

	if opts.Verbose {
		log.Printf("[RASTERIZE] Captured %d bytes of PNG", len(png))
	}
	return png, nil
}
