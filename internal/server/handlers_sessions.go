package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// handleCreateSession starts an editing session from a stored resume, an inline document or
// a blank document
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeOptionalRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpl := templateOrDefault(req.Template, types.DefaultTemplate)
	doc := types.NewResumeDocument(tmpl)
	var stored *db.Resume

	switch {
	case req.ResumeID != "":
		if s.resumes == nil {
			s.writeError(w, r, &ErrUnavailable{Feature: "resume storage"})
			return
		}
		id := uuid.MustParse(req.ResumeID)
		var err error
		stored, err = s.resumes.GetResume(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if stored == nil {
			s.writeError(w, r, fmt.Errorf("resume %s: %w", id, db.ErrNotFound))
			return
		}
		doc = stored.Document
		if req.Template == "" {
			tmpl = stored.Template
		}

	case len(req.Document) > 0:
		result, parsed := validation.ValidateJSON(req.Document, tmpl)
		if parsed == nil {
			s.invalidDocumentResponse(w, result)
			return
		}
		doc = *parsed
		if req.Template == "" && parsed.Template.Valid() {
			tmpl = parsed.Template
		}
	}

	sess := s.sessions.Create(editor.NewWithDocument(doc, tmpl, nil), s.tailorer)
	if stored != nil {
		sess.setSaved(stored.ID, stored.Title)
	}
	if s.verbose {
		log.Printf("[SERVER] created session %s (%s)", sess.ID, tmpl)
	}
	s.jsonResponse(w, http.StatusCreated, newSessionResponse(sess))
}

// handleGetSession returns the current document with its validation state
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleDeleteSession discards a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceResume swaps in a whole document and/or switches the template
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req ReplaceResumeRequest
	if err := decodeRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpl := templateOrDefault(req.Template, sess.Editor.Template())
	var doc *types.ResumeDocument
	if len(req.Document) > 0 {
		var result validation.Result
		result, doc = validation.ValidateJSON(req.Document, tmpl)
		if doc == nil {
			s.invalidDocumentResponse(w, result)
			return
		}
	}

	if req.Template != "" {
		sess.Editor.SetTemplate(tmpl)
	}
	if doc != nil {
		sess.Editor.Replace(*doc)
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleUpdateFields writes field values in order and stops at the first rejected one
func (s *Server) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req UpdateFieldsRequest
	if err := decodeRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	for _, f := range req.Fields {
		if err := sess.Editor.SetField(f.Path, f.Value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleAddItem appends a blank entry to a section when its gate allows it
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(ed *editor.Editor) error {
		section, err := pathSection(r)
		if err != nil {
			return err
		}
		return ed.AddItem(section)
	})
}

// handleRemoveItem deletes an entry of a section
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(ed *editor.Editor) error {
		section, err := pathSection(r)
		if err != nil {
			return err
		}
		i, err := pathIndex(r, "index")
		if err != nil {
			return err
		}
		return ed.RemoveItem(section, i)
	})
}

// handleAddTask appends an empty task to an experience or project entry
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(ed *editor.Editor) error {
		section, err := pathSection(r)
		if err != nil {
			return err
		}
		i, err := pathIndex(r, "index")
		if err != nil {
			return err
		}
		return ed.AddTask(section, i)
	})
}

// handleRemoveTask deletes a task of an experience or project entry
func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(ed *editor.Editor) error {
		section, err := pathSection(r)
		if err != nil {
			return err
		}
		i, err := pathIndex(r, "index")
		if err != nil {
			return err
		}
		j, err := pathIndex(r, "task")
		if err != nil {
			return err
		}
		return ed.RemoveTask(section, i, j)
	})
}

// mutateSession runs fn against the session editor and responds with the new state.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(ed *editor.Editor) error) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(sess.Editor); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}
