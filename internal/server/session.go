package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/errors"
)

type session struct {
	id uuid.UUID

	mu       sync.Mutex
	ed       *editor.Editor
	lastUsed time.Time
}

type sessionStore struct {
	mu sync.RWMutex
	m  map[uuid.UUID]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[uuid.UUID]*session)}
}

func (s *sessionStore) add(ed *editor.Editor) *session {
	sess := &session{id: uuid.New(), ed: ed, lastUsed: time.Now()}
	s.mu.Lock()
	s.m[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(raw string) (*session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "session %q not found", raw)
	}
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "session %q not found", raw)
	}
	return sess, nil
}

func (s *sessionStore) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// expire drops sessions last used before cutoff and returns how many it dropped.
// Sessions busy with a request are skipped.
func (s *sessionStore) expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastUsed.Before(cutoff) {
			delete(s.m, id)
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

type sessionKey struct{}

// withSession resolves {id}, locks the session for the whole request and
// stores it in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.lastUsed = time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session {
	return r.Context().Value(sessionKey{}).(*session)
}
