package tailoring

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/types"
)

// Session drives tailoring for one editor and keeps a linear undo history. Each applied
// rewrite pushes the document it replaced; Reset pops the most recent one.
type Session struct {
	editor   *editor.Editor
	tailorer *Tailorer

	busy sync.Mutex

	mu             sync.Mutex
	history        []types.ResumeDocument
	jobDescription string
}

// NewSession returns a session that tailors the document held by ed.
func NewSession(ed *editor.Editor, tailorer *Tailorer) *Session {
	return &Session{editor: ed, tailorer: tailorer}
}

// Tailor rewrites the current document for jobDescription and remembers the description
// for Regenerate. ErrBusy is returned while another Tailor or Regenerate is running.
func (s *Session) Tailor(ctx context.Context, jobDescription string) error {
	if strings.TrimSpace(jobDescription) == "" {
		return ErrNoJobDescription
	}
	return s.run(ctx, jobDescription)
}

// Regenerate re-runs tailoring on the current document with the last job description.
func (s *Session) Regenerate(ctx context.Context) error {
	jd := s.JobDescription()
	if jd == "" {
		return ErrNoJobDescription
	}
	return s.run(ctx, jd)
}

// Reset restores the document saved by the most recent Tailor or Regenerate. Once the
// history is empty the saved job description is forgotten.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if n == 0 {
		return ErrNothingToUndo
	}
	prev := s.history[n-1]
	s.history = s.history[:n-1]
	if len(s.history) == 0 {
		s.jobDescription = ""
	}

	s.editor.Replace(prev)
	return nil
}

// JobDescription returns the description used by the last successful tailoring.
func (s *Session) JobDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription
}

// Depth returns the number of snapshots Reset can restore.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) run(ctx context.Context, jobDescription string) error {
	if !s.busy.TryLock() {
		return ErrBusy
	}
	defer s.busy.Unlock()

	before := s.editor.Snapshot()
	patch, err := s.tailorer.Tailor(ctx, &before, s.editor.Template(), jobDescription)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, before)
	s.jobDescription = jobDescription
	s.editor.Replace(ApplyPatch(before, patch))
	return nil
}
