package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// ValidateResponse is the response of POST /validate.
type ValidateResponse struct {
	validation.Result
	Gates validation.Gates `json:"gates"`
}

// SessionResponse is the state of an editing session, returned by every session route.
type SessionResponse struct {
	ID             string               `json:"id"`
	Template       types.Template       `json:"template"`
	Document       types.ResumeDocument `json:"document"`
	Validation     validation.Result    `json:"validation"`
	Gates          validation.Gates     `json:"gates"`
	CanExport      bool                 `json:"can_export"`
	JobDescription string               `json:"job_description,omitempty"`
	UndoDepth      int                  `json:"undo_depth"`
	ResumeID       string               `json:"resume_id,omitempty"`
	Title          string               `json:"title,omitempty"`
}

func newSessionResponse(sess *Session) SessionResponse {
	ed := sess.Editor
	resp := SessionResponse{
		ID:             sess.ID.String(),
		Template:       ed.Template(),
		Document:       ed.Snapshot(),
		Validation:     ed.Result(),
		Gates:          ed.Gates(),
		CanExport:      ed.Flag().Valid(),
		JobDescription: sess.Tailoring.JobDescription(),
		UndoDepth:      sess.Tailoring.Depth(),
	}
	if id, title := sess.SavedAs(); id != uuid.Nil {
		resp.ResumeID = id.String()
		resp.Title = title
	}
	return resp
}

// handleValidate validates a resume document without creating a session
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpl := templateOrDefault(req.Template, types.DefaultTemplate)
	result, doc := validation.ValidateJSON(req.Document, tmpl)
	s.jsonResponse(w, http.StatusOK, ValidateResponse{
		Result: result,
		Gates:  validation.ComputeGates(doc, tmpl),
	})
}

// invalidDocumentResponse reports a document that failed the structural schema check.
func (s *Server) invalidDocumentResponse(w http.ResponseWriter, result validation.Result) {
	s.jsonResponse(w, http.StatusBadRequest, map[string]any{
		"error":      "Resume document does not match the expected structure",
		"validation": result,
	})
}

// session looks up the session named by the {id} path value.
func (s *Server) session(r *http.Request) (*Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "must be a valid UUID"}
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return sess, nil
}

// pathIndex parses a non-negative integer path value.
func pathIndex(r *http.Request, name string) (int, error) {
	i, err := strconv.Atoi(r.PathValue(name))
	if err != nil || i < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return i, nil
}

// pathSection parses the {section} path value.
func pathSection(r *http.Request) (validation.Section, error) {
	section, ok := validation.ParseSection(r.PathValue("section"))
	if !ok {
		return "", &ErrValidation{Field: "section", Message: "unknown section"}
	}
	return section, nil
}
