package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/tailoring"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 2 * time.Hour

// Session is one editing session: a document, its validity flag and its tailoring history.
type Session struct {
	ID        uuid.UUID
	Editor    *editor.Editor
	Tailoring *tailoring.Session
	CreatedAt time.Time

	mu         sync.Mutex
	resumeID   uuid.UUID
	title      string
	lastAccess time.Time
}

// SavedAs returns the ID and title of the stored resume, or uuid.Nil when the session has
// not been saved.
func (s *Session) SavedAs() (uuid.UUID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeID, s.title
}

func (s *Session) setSaved(id uuid.UUID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeID = id
	s.title = title
}

// SessionStore keeps sessions in memory and forgets them after a period of inactivity.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire ttl after their last use.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session around ed.
func (s *SessionStore) Create(ed *editor.Editor, tailorer *tailoring.Tailorer) *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.New(),
		Editor:     ed,
		Tailoring:  tailoring.NewSession(ed, tailorer),
		CreatedAt:  now,
		lastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session and marks it as used.
func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.mu.Lock()
	sess.lastAccess = now
	sess.mu.Unlock()
	return sess, true
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return now.Sub(sess.lastAccess) > s.ttl
}
