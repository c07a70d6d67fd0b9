//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestIntegration_Resume_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := "test-" + uuid.NewString()
	doc := types.NewResumeDocument(types.TemplateExperienced)
	doc.Personal.Name = "Ada Lovelace"
	doc.Skills = []string{"Go"}

	saved, err := db.SaveResume(ctx, &ResumeCreateInput{UserID: userID, Title: "Backend", Document: doc})
	require.NoError(t, err)
	defer func() { _ = db.DeleteResume(ctx, saved.ID) }()
	assert.NotEqual(t, uuid.Nil, saved.ID)

	got, err := db.GetResume(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Lovelace", got.Document.Personal.Name)
	assert.Equal(t, types.TemplateExperienced, got.Template)
	assert.Equal(t, []string{"Go"}, got.Document.Skills)

	doc.Skills = []string{"Go", "Rust"}
	require.NoError(t, db.UpdateResume(ctx, saved.ID, "Systems", doc))

	list, err := db.ListResumes(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Systems", list[0].Title)
	assert.Equal(t, "Ada Lovelace", list[0].Name)

	require.NoError(t, db.DeleteResume(ctx, saved.ID))
	got, err = db.GetResume(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.True(t, errors.Is(db.DeleteResume(ctx, saved.ID), ErrNotFound))
	assert.True(t, errors.Is(db.UpdateResume(ctx, saved.ID, "", doc), ErrNotFound))
}

func TestIntegration_JobPosting_Cache(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	url := "https://jobs.test.example.com/" + uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, "DELETE FROM job_postings WHERE url = $1", url) }()

	cached, err := db.LookupPosting(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, cached)

	require.NoError(t, db.RecordFetchFailure(ctx, url, 404, "HTTP status 404"))
	cached, err = db.LookupPosting(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, cached, "failed fetches are never served")

	require.NoError(t, db.StorePosting(ctx, CachedPosting{URL: url, Platform: "lever", Text: "Go engineer", HTTPStatus: 200}, time.Hour))
	cached, err = db.LookupPosting(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Go engineer", cached.Text)
	assert.Equal(t, ContentHash("Go engineer"), cached.ContentHash)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cached.ExpiresAt, time.Minute)

	require.NoError(t, db.RecordFetchFailure(ctx, url, 0, "timeout"))
	cached, err = db.LookupPosting(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, cached, "a later failure invalidates the cached copy")
}
