package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultPostingTTL is how long a fetched job description is served from the cache.
const DefaultPostingTTL = 24 * time.Hour

// CachedPosting is the extracted text of a job posting URL.
type CachedPosting struct {
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	Text        string    `json:"text"`
	ContentHash string    `json:"content_hash"`
	HTTPStatus  int       `json:"http_status"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Fresh reports whether p may still be served at now.
func (p *CachedPosting) Fresh(now time.Time) bool {
	return p.Text != "" && now.Before(p.ExpiresAt)
}

// ContentHash is the hex SHA-256 of a posting text. It shows whether a refetch changed
// the posting.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// LookupPosting returns the cached posting of url, or nil when there is no unexpired
// successful fetch.
func (db *DB) LookupPosting(ctx context.Context, url string) (*CachedPosting, error) {
	var p CachedPosting
	err := db.pool.QueryRow(ctx,
		`UPDATE job_postings SET last_accessed_at = NOW()
		 WHERE url = $1 AND fetch_status = 'success' AND expires_at > NOW()
		 RETURNING url, platform, cleaned_text, content_hash, http_status, fetched_at, expires_at`,
		url,
	).Scan(&p.URL, &p.Platform, &p.Text, &p.ContentHash, &p.HTTPStatus, &p.FetchedAt, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up job posting: %w", err)
	}
	return &p, nil
}

// StorePosting caches a successful fetch for ttl, replacing any earlier row for the URL.
// A ttl of zero means DefaultPostingTTL.
func (db *DB) StorePosting(ctx context.Context, p CachedPosting, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPostingTTL
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_postings (url, platform, cleaned_text, content_hash, http_status,
		                           fetch_status, error_message, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, 'success', NULL, NOW(), NOW() + $6::interval)
		 ON CONFLICT (url) DO UPDATE SET
		     platform = EXCLUDED.platform,
		     cleaned_text = EXCLUDED.cleaned_text,
		     content_hash = EXCLUDED.content_hash,
		     http_status = EXCLUDED.http_status,
		     fetch_status = 'success',
		     error_message = NULL,
		     fetched_at = EXCLUDED.fetched_at,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = NOW()`,
		p.URL, p.Platform, p.Text, ContentHash(p.Text), p.HTTPStatus, ttl,
	)
	if err != nil {
		return fmt.Errorf("failed to store job posting: %w", err)
	}
	return nil
}

// RecordFetchFailure notes a failed fetch of url. An earlier successful copy is
// invalidated so it is not served again. httpStatus is 0 when no response arrived.
func (db *DB) RecordFetchFailure(ctx context.Context, url string, httpStatus int, reason string) error {
	var status *int
	if httpStatus > 0 {
		status = &httpStatus
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_postings (url, http_status, fetch_status, error_message)
		 VALUES ($1, $2, 'failed', $3)
		 ON CONFLICT (url) DO UPDATE SET
		     http_status = EXCLUDED.http_status,
		     fetch_status = 'failed',
		     error_message = EXCLUDED.error_message,
		     updated_at = NOW()`,
		url, status, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch failure: %w", err)
	}
	return nil
}
