package generator

import (
	"sync"
	"time"
)

// Session holds the generation history of one browser session, newest
// first. It grows without bound; callers decide how much to show.
type Session struct {
	ID string

	mu       sync.Mutex
	history  []Result
	lastSeen time.Time
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, lastSeen: time.Now()}
}

// Append records a successful generation as the newest entry.
func (s *Session) Append(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]Result{r}, s.history...)
	s.lastSeen = time.Now()
}

// Recent returns a copy of at most n entries, newest first.
func (s *Session) Recent(n int) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if n < 0 {
		n = 0
	}
	if n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Result, n)
	copy(out, s.history[:n])
	return out
}

// Find looks up an entry by result id.
func (s *Session) Find(id string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.history {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}

// Len reports the number of stored generations.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// IdleSince reports whether the session was last touched before t.
func (s *Session) IdleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(t)
}
