package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedPosting struct {
	posting db.CachedPosting
	ttl     time.Duration
}

type fakeCache struct {
	postings map[string]*db.CachedPosting
	stored   []storedPosting
	failures []string
	getErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{postings: map[string]*db.CachedPosting{}}
}

func (c *fakeCache) LookupPosting(_ context.Context, url string) (*db.CachedPosting, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p := c.postings[url]
	if p == nil || !p.Fresh(time.Now()) {
		return nil, nil
	}
	return p, nil
}

func (c *fakeCache) StorePosting(_ context.Context, p db.CachedPosting, ttl time.Duration) error {
	c.stored = append(c.stored, storedPosting{posting: p, ttl: ttl})
	p.FetchedAt = time.Now()
	p.ExpiresAt = p.FetchedAt.Add(time.Hour)
	c.postings[p.URL] = &p
	return nil
}

func (c *fakeCache) RecordFetchFailure(_ context.Context, url string, _ int, _ string) error {
	c.failures = append(c.failures, url)
	delete(c.postings, url)
	return nil
}

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (r *fakeRenderer) Render(context.Context, string) (string, error) {
	r.calls++
	return r.html, r.err
}

func postingServer(t *testing.T, body string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestJobDescription_NoCache(t *testing.T) {
	server, _ := postingServer(t, `<body><div class="job-description"><p>Go engineer</p></div></body>`, http.StatusOK)

	posting, err := JobDescription(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", posting.Text)
	assert.Equal(t, PlatformUnknown, posting.Platform)
	assert.False(t, posting.FromCache)
}

func TestJobDescription_CachesAndServesFromCache(t *testing.T) {
	server, hits := postingServer(t, `<body><main><p>Go engineer</p></main></body>`, http.StatusOK)
	cache := newFakeCache()
	f := &JobFetcher{Cache: cache, CacheTTL: time.Hour}

	first, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	require.Len(t, cache.stored, 1)
	assert.Equal(t, time.Hour, cache.stored[0].ttl)
	assert.Equal(t, http.StatusOK, cache.stored[0].posting.HTTPStatus)
	assert.Equal(t, string(PlatformUnknown), cache.stored[0].posting.Platform)

	second, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestJobDescription_CacheErrorFallsBackToFetch(t *testing.T) {
	server, _ := postingServer(t, `<body><main>Go engineer</main></body>`, http.StatusOK)
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")

	posting, err := (&JobFetcher{Cache: cache}).JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", posting.Text)
}

func TestJobDescription_RecordsFailures(t *testing.T) {
	server, _ := postingServer(t, "gone", http.StatusGone)
	cache := newFakeCache()

	_, err := (&JobFetcher{Cache: cache}).JobDescription(context.Background(), server.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, []string{server.URL}, cache.failures)
	assert.Empty(t, cache.stored)
}

func TestJobDescription_EmptyPage(t *testing.T) {
	server, _ := postingServer(t, `<body><script>render()</script></body>`, http.StatusOK)

	_, err := JobDescription(context.Background(), server.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "no job description text found", fetchErr.Message)
}

func TestJobDescription_BrowserFallback(t *testing.T) {
	server, _ := postingServer(t, `<body><div id="root">Loading</div></body>`, http.StatusOK)
	rendered := `<body><main><p>` + strings.Repeat("Design distributed systems. ", 30) + `</p></main></body>`

	t.Run("uses rendered text", func(t *testing.T) {
		r := &fakeRenderer{html: rendered}
		posting, err := (&JobFetcher{Browser: r}).JobDescription(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 1, r.calls)
		assert.Contains(t, posting.Text, "Design distributed systems.")
	})

	t.Run("keeps HTTP text when rendering fails", func(t *testing.T) {
		r := &fakeRenderer{err: errors.New("chrome not found")}
		posting, err := (&JobFetcher{Browser: r}).JobDescription(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Loading", posting.Text)
	})
}

func TestJobDescription_InvalidURL(t *testing.T) {
	cache := newFakeCache()
	_, err := (&JobFetcher{Cache: cache}).JobDescription(context.Background(), "job posting")

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, cache.failures)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Zoë", truncateText("Zoë", 3))
	assert.Equal(t, "Zo", truncateText("Zoë", 2))
}

var (
	_ PostingCache = (*db.DB)(nil)
	_ Renderer     = Browser{}
)
