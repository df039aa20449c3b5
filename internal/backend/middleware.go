package backend

import (
	"context"
	"net/http"
)

type sessionContextKey struct{}

// requireSession rejects requests without a live session cookie.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) session(r *http.Request) (Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	sess, err := s.sessions.Get(c.Value)
	if err != nil {
		return Session{}, false
	}
	return sess, true
}

func sessionFrom(r *http.Request) Session {
	sess, _ := r.Context().Value(sessionContextKey{}).(Session)
	return sess
}
