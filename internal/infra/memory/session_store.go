package memory

import (
	"sync"

	"summit-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository,
// indexed by id and by join code.
type SessionStore struct {
	mu     sync.RWMutex
	byID   map[string]*app.Session
	byCode map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byID:   make(map[string]*app.Session),
		byCode: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Insert(session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCode[session.Code()]; taken {
		return false
	}
	s.byID[session.ID()] = session
	s.byCode[session.Code()] = session
	return true
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byID[id]
	return session, ok
}

func (s *SessionStore) GetByCode(code string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byCode[code]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	delete(s.byCode, session.Code())
}
