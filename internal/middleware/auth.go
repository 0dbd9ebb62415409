package middleware

import (
	"net/http"

	"github.com/BorisDmv/my-blog/internal/models"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/login"

// SessionReader returns the session of a request, failing closed.
type SessionReader interface {
	Get(r *http.Request) models.Session
}

// RequireSession lets a request through only when its session is
// authenticated. Everything else is redirected to the login page.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Get(r).Authenticated {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
