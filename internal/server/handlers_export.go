package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
)

// SaveInvalidMessage is returned when saving while the form has validation errors.
const SaveInvalidMessage = "Please fix all validation errors before saving."

// DefaultResumeTitle names saved resumes that have neither a title nor a name.
const DefaultResumeTitle = "Untitled resume"

// SaveResponse is the response of POST /sessions/{id}/save.
type SaveResponse struct {
	ResumeID string `json:"resume_id"`
	Title    string `json:"title"`
	Created  bool   `json:"created"`
}

// handleExportDOCX downloads the session as a Word document
func (s *Server) handleExportDOCX(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.exporter.DOCX(r.Context(), sess.Editor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, a)
}

// handleExportPDF downloads the session as a PDF
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.exporter.PDF(r.Context(), sess.Editor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, a)
}

// writeArtifact sends an exported file as an attachment.
func (s *Server) writeArtifact(w http.ResponseWriter, a *export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	if a.Location != "" {
		w.Header().Set("X-Artifact-Location", a.Location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		log.Printf("[SERVER] error writing %s: %v", a.Filename, err)
	}
}

// handleSave stores the session document, updating the resume it was loaded from or last
// saved as
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.resumes == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "resume storage"})
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req SaveRequest
	if err := decodeOptionalRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if !sess.Editor.Flag().Valid() {
		s.writeError(w, r, &rendering.PreconditionError{Message: SaveInvalidMessage})
		return
	}
	doc := sess.Editor.Snapshot()
	doc.Template = sess.Editor.Template()

	savedID, savedTitle := sess.SavedAs()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = savedTitle
	}
	if title == "" {
		title = strings.TrimSpace(doc.Personal.Name)
	}
	if title == "" {
		title = DefaultResumeTitle
	}

	if savedID != uuid.Nil {
		err := s.resumes.UpdateResume(r.Context(), savedID, title, doc)
		switch {
		case err == nil:
			sess.setSaved(savedID, title)
			s.jsonResponse(w, http.StatusOK, SaveResponse{ResumeID: savedID.String(), Title: title})
			return
		case !errors.Is(err, db.ErrNotFound):
			s.writeError(w, r, err)
			return
		}
		// The stored copy is gone; save a new one.
	}

	saved, err := s.resumes.SaveResume(r.Context(), &db.ResumeCreateInput{
		UserID:   req.UserID,
		Title:    title,
		Document: doc,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.setSaved(saved.ID, saved.Title)
	if s.verbose {
		log.Printf("[SERVER] saved session %s as resume %s", sess.ID, saved.ID)
	}
	s.jsonResponse(w, http.StatusCreated, SaveResponse{ResumeID: saved.ID.String(), Title: saved.Title, Created: true})
}

// handleListResumes lists the saved resumes of a user
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	if s.resumes == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "resume storage"})
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, r, &ErrValidation{Field: "user_id", Message: "is required"})
		return
	}
	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > db.DefaultListLimit {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", db.DefaultListLimit)})
			return
		}
		limit = n
	}

	resumes, err := s.resumes.ListResumes(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []db.ResumeSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
	})
}
