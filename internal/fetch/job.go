package fetch

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/db"
)

// MaxJobDescriptionChars bounds the text handed to the tailoring prompt.
const MaxJobDescriptionChars = 20000

// PostingCache stores fetched job descriptions by URL. *db.DB implements it.
type PostingCache interface {
	LookupPosting(ctx context.Context, url string) (*db.CachedPosting, error)
	StorePosting(ctx context.Context, p db.CachedPosting, ttl time.Duration) error
	RecordFetchFailure(ctx context.Context, url string, httpStatus int, reason string) error
}

// JobPosting is the plain text of a job posting.
type JobPosting struct {
	URL       string   `json:"url"`
	Platform  Platform `json:"platform"`
	Text      string   `json:"text"`
	FromCache bool     `json:"from_cache"`
}

// JobFetcher fetches job descriptions with optional caching and browser fallback.
// The zero value fetches over plain HTTP without a cache.
type JobFetcher struct {
	Options  *Options
	Cache    PostingCache
	CacheTTL time.Duration
	Browser  Renderer
	Verbose  bool
}

// JobDescription fetches url with default settings.
func JobDescription(ctx context.Context, url string) (*JobPosting, error) {
	var f JobFetcher
	return f.JobDescription(ctx, url)
}

// JobDescription returns the text of the job posting at url. A fresh cached copy is served
// when a cache is configured. When the HTTP text is too short and a Browser is set, the page
// is rendered client-side and extracted again.
func (f *JobFetcher) JobDescription(ctx context.Context, url string) (*JobPosting, error) {
	url = strings.TrimSpace(url)
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	platform := DetectPlatform(url)

	if f.Cache != nil {
		cached, err := f.Cache.LookupPosting(ctx, url)
		if err != nil {
			log.Printf("[FETCH] cache lookup failed for %s: %v", url, err)
		} else if cached != nil && cached.Text != "" {
			if f.Verbose {
				log.Printf("[FETCH] cache hit for %s (fetched %s)", url, cached.FetchedAt.Format(time.RFC3339))
			}
			return &JobPosting{URL: url, Platform: platform, Text: cached.Text, FromCache: true}, nil
		}
	}

	page, err := Get(ctx, url, f.Options)
	if err != nil {
		f.recordFailure(ctx, url, page, err)
		return nil, err
	}

	sel := platform.Selectors()
	text, err := ExtractText(page.HTML, sel)
	if err != nil {
		return nil, &Error{URL: url, Message: "content extraction failed", Cause: err}
	}
	if f.Verbose {
		log.Printf("[FETCH] %s (%s): %d chars over HTTP", url, platform, len(text))
	}

	if f.Browser != nil && NeedsRendering(text) {
		html, err := f.Browser.Render(ctx, url)
		if err != nil {
			log.Printf("[FETCH] browser fallback failed for %s: %v", url, err)
		} else if rendered, err := ExtractText(html, sel); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	text = truncateText(text, MaxJobDescriptionChars)
	if strings.TrimSpace(text) == "" {
		err := &Error{URL: url, Message: "no job description text found"}
		f.recordFailure(ctx, url, page, err)
		return nil, err
	}

	if f.Cache != nil {
		err := f.Cache.StorePosting(ctx, db.CachedPosting{
			URL:        url,
			Platform:   string(platform),
			Text:       text,
			HTTPStatus: page.StatusCode,
		}, f.CacheTTL)
		if err != nil {
			// The fetch succeeded; a cache write failure only costs a refetch.
			log.Printf("[FETCH] cache write failed for %s: %v", url, err)
		}
	}

	return &JobPosting{URL: url, Platform: platform, Text: text}, nil
}

func (f *JobFetcher) recordFailure(ctx context.Context, url string, page *Page, err error) {
	if f.Cache == nil {
		return
	}
	status := 0
	if page != nil {
		status = page.StatusCode
	}
	if recErr := f.Cache.RecordFetchFailure(ctx, url, status, err.Error()); recErr != nil {
		log.Printf("[FETCH] failed to record fetch failure for %s: %v", url, recErr)
	}
}

func truncateText(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
