package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "sma_session"

// ErrBusy is returned when a session already has a generation in flight.
var ErrBusy = errors.New("generation already in progress")

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := existingSession(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func existingSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// acquire marks sid as generating. The returned func releases it.
func (s *Server) acquire(sid string) (func(), error) {
	if _, loaded := s.inflight.LoadOrStore(sid, struct{}{}); loaded {
		return nil, ErrBusy
	}
	return func() { s.inflight.Delete(sid) }, nil
}
