package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/rating"
	"github.com/jonathan/resume-builder/internal/types"
)

// ImportResponse is the response of POST /import.
type ImportResponse struct {
	Session  SessionResponse     `json:"session"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// readUpload returns the "file" part of a multipart request. A request without the part
// yields empty data and no error.
func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return "", nil, err
		}
		return "", nil, &ErrValidation{Field: "file", Message: "expected a multipart/form-data upload"}
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, data, nil
}

// handleImport parses an uploaded PDF or DOCX resume into a new editing session
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "resume import"})
		return
	}

	filename, data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(data) == 0 {
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "is required"})
		return
	}

	tmpl := types.DefaultTemplate
	if v := r.FormValue("template"); v != "" {
		if !types.Template(v).Valid() {
			s.writeError(w, r, &ErrValidation{Field: "template", Message: "must be one of: freshie experienced"})
			return
		}
		tmpl = types.Template(v)
	}

	result, err := ingestion.Import(r.Context(), s.llm, filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := s.sessions.Create(editor.NewWithDocument(result.Document, tmpl, nil), s.tailorer)
	if s.verbose {
		log.Printf("[SERVER] imported %s (%d bytes) into session %s", filename, len(data), sess.ID)
	}
	s.jsonResponse(w, http.StatusCreated, ImportResponse{
		Session:  newSessionResponse(sess),
		Metadata: result.Metadata,
	})
}

// handleRate scores an uploaded PDF resume
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "resume rating"})
		return
	}

	filename, data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := rating.Rate(r.Context(), s.llm, filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
