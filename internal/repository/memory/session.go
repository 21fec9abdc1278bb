package memory

import (
	"context"
	"sync"
	"time"
)

type session struct {
	userID  int
	expires time.Time
}

// SessionStore keeps sessions in a map. Expired entries are dropped lazily on
// lookup.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, token string, userID int, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expires: expires}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (int, bool, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}

	if !sess.expires.IsZero() && !s.now().Before(sess.expires) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return 0, false, nil
	}
	return sess.userID, true, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false, nil
	}
	delete(s.sessions, token)
	return true, nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]session)
	return nil
}
