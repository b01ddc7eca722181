package forms

import (
	"fhirstarter-service/internal/app/services/shared/events"
	"fhirstarter-service/internal/pkg/formrender"
	"sync"
	"time"
)

// formSession is one rendered form bound to its answer document. The mutex
// serializes every event of the session.
type formSession struct {
	mu              sync.Mutex
	ID              string
	QuestionnaireID string
	Subject         string
	Form            *formrender.Form
	Observer        *events.SessionObserver
	ExpiresAt       time.Time
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*formSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*formSession)}
}

func (s *sessionStore) put(session *formSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// get returns live sessions only. An expired session is dropped on access.
func (s *sessionStore) get(sessionID string, now time.Time) (*formSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	session.mu.Lock()
	expired := !now.Before(session.ExpiresAt)
	session.mu.Unlock()
	if expired {
		s.remove(sessionID)
		return nil, false
	}
	return session, true
}

func (s *sessionStore) remove(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}

func (s *sessionStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		expired := !now.Before(session.ExpiresAt)
		session.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
