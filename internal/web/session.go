package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/airchat/internal/chat"
)

// SessionCookieName holds the browser's session ID
const SessionCookieName = "airchat_session"

const sessionCookieMaxAge = 24 * time.Hour

type sessionKey struct{}

// sessionMiddleware resolves the caller's session from the cookie, creating
// one when the cookie is missing, malformed or refers to an expired session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookieName); err == nil && isValidSessionID(c.Value) {
			id = c.Value
		}

		session, created := s.store.GetOrCreate(id)
		if created {
			s.logger.Debug("session created", "session", session.ID(), "sessions", s.store.Len())
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    session.ID(),
			Path:     "/",
			MaxAge:   int(sessionCookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   s.secureCookie,
		})

		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by sessionMiddleware
func sessionFrom(ctx context.Context) *chat.Session {
	session, _ := ctx.Value(sessionKey{}).(*chat.Session)
	return session
}

func isValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
