// Package history keeps the per-session list of past generations.
package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"social_media_agent/generator"
)

// Shown is how many entries the UI lists.
const Shown = 5

// ErrNoSession is returned for an empty session id.
var ErrNoSession = errors.New("history: session id required")

// Store is a session-scoped, newest-first generation history.
type Store interface {
	Append(ctx context.Context, sessionID string, r generator.Result) error
	Recent(ctx context.Context, sessionID string, n int) ([]generator.Result, error)
	Get(ctx context.Context, sessionID, resultID string) (generator.Result, bool, error)
	Len(ctx context.Context, sessionID string) (int, error)
}

// MemoryStore keeps each session in process memory. Sessions idle for
// longer than ttl are dropped on the next access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*generator.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) session(id string, create bool) *generator.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	sess, ok := s.sessions[id]
	if !ok && create {
		sess = generator.NewSession(id)
		s.sessions[id] = sess
	}
	return sess
}

func (s *MemoryStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.IdleSince(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, r generator.Result) error {
	if sessionID == "" {
		return ErrNoSession
	}
	s.session(sessionID, true).Append(r)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, sessionID string, n int) ([]generator.Result, error) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return nil, nil
	}
	return sess.Recent(n), nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID, resultID string) (generator.Result, bool, error) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return generator.Result{}, false, nil
	}
	r, ok := sess.Find(resultID)
	return r, ok, nil
}

func (s *MemoryStore) Len(_ context.Context, sessionID string) (int, error) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return 0, nil
	}
	return sess.Len(), nil
}
