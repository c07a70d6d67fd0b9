package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP fetch. Shorter
// text usually means the board renders the description client-side.
const MinContentLength = 500

// DefaultSettle is how long a rendered page is given to fill in its description.
const DefaultSettle = 3 * time.Second

// NeedsRendering reports whether text is too short to be a real job description.
func NeedsRendering(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Browser renders pages with headless Chrome, which must be installed on the host.
type Browser struct {
	Timeout time.Duration
	Settle  time.Duration
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
	Verbose  bool
}

func (b Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(DefaultUserAgent),
	)
	if b.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.ExecPath))
	}
	return opts
}

// Render implements Renderer.
func (b Browser) Render(ctx context.Context, url string) (string, error) {
	timeout, settle := b.Timeout, b.Settle
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	start := time.Now()
	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	if b.Verbose {
		log.Printf("[FETCH] rendered %s in %s (%d bytes)", url, time.Since(start).Round(time.Millisecond), len(html))
	}
	return html, nil
}
