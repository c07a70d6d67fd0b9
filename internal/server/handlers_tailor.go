package server

import (
	"log"
	"net/http"
)

// handleTailor rewrites the session document for a job description
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	if s.tailorer == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "AI tailoring"})
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req TailorRequest
	if err := decodeRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	jd, err := s.jobDescriptionFor(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := sess.Tailoring.Tailor(r.Context(), jd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.verbose {
		log.Printf("[TAILOR] session %s tailored (undo depth %d)", sess.ID, sess.Tailoring.Depth())
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleRegenerate re-runs tailoring with the last job description
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if s.tailorer == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "AI tailoring"})
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Tailoring.Regenerate(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleReset restores the document replaced by the most recent tailoring
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Tailoring.Reset(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}
