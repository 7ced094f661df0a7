package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lifelens/lifelens/internal/application/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionAuth resolves the bearer token against the in-process session store
// and puts the session on the request context. Requests without a live
// session are rejected; a new connection always starts logged out.
func SessionAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			sess, ok := sessions.Lookup(token)
			if !ok {
				http.Error(w, "not logged in", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session placed by SessionAuth.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(auth.Session)
	return sess, ok
}

// EmailFromContext returns the logged-in identity, or "" outside a session.
func EmailFromContext(ctx context.Context) string {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.Email
	}
	return ""
}
