package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// Resume is a saved resume document.
type Resume struct {
	ID        uuid.UUID            `json:"id"`
	UserID    string               `json:"user_id"`
	Title     string               `json:"title"`
	Template  types.Template       `json:"template"`
	Document  types.ResumeDocument `json:"document"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a saved resume for listing
type ResumeSummary struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Name      string         `json:"name"`
	Template  types.Template `json:"template"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ResumeCreateInput holds the fields of a resume to save
type ResumeCreateInput struct {
	UserID   string
	Title    string
	Document types.ResumeDocument
}

// DefaultListLimit caps ListResumes when no limit is given.
const DefaultListLimit = 50
