package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

// SaveResume stores a new resume and returns it with its generated ID
func (db *DB) SaveResume(ctx context.Context, input *ResumeCreateInput) (*Resume, error) {
	docJSON, err := json.Marshal(input.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	r := Resume{
		ID:       uuid.New(),
		UserID:   input.UserID,
		Title:    input.Title,
		Template: types.ParseTemplate(string(input.Document.Template)),
		Document: input.Document,
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, title, template, document)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		r.ID, r.UserID, r.Title, string(r.Template), docJSON,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return &r, nil
}

// GetResume retrieves a resume by ID. It returns nil when no resume matches.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var r Resume
	var tmpl string
	var docJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, template, document, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Title, &tmpl, &docJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(docJSON, &r.Document); err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	r.Template = types.ParseTemplate(tmpl)
	r.Document.Template = r.Template
	return &r, nil
}

// ListResumes returns the resumes of a user, most recently updated first
func (db *DB) ListResumes(ctx context.Context, userID string, limit int) ([]ResumeSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, COALESCE(document->'personal'->>'name', ''), template, updated_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY updated_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []ResumeSummary{}
	for rows.Next() {
		var s ResumeSummary
		var tmpl string
		if err := rows.Scan(&s.ID, &s.Title, &s.Name, &tmpl, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		s.Template = types.ParseTemplate(tmpl)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return summaries, nil
}

// UpdateResume replaces the document and title of a saved resume
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, title string, doc types.ResumeDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $2, template = $3, document = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, title, string(types.ParseTemplate(string(doc.Template))), docJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteResume deletes a saved resume
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}
