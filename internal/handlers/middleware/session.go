// internal/handlers/middleware/session.go
package middleware

import (
	"context"
	"net/http"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

type sessionContextKey struct{}

// Header names carrying the caller identity, set by the authenticating
// reverse proxy in front of this service.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
	HeaderTenantID  = "X-Tenant-Id"
)

// Session extracts the caller identity headers into a domain.Session and
// stores it in the request context. Requests without an actor id are
// rejected before reaching any handler.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := domain.Session{
			ActorID:  r.Header.Get(HeaderActorID),
			Role:     r.Header.Get(HeaderActorRole),
			TenantID: r.Header.Get(HeaderTenantID),
		}

		if err := sess.Validate(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"missing actor identity"}`))
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session placed by the Session middleware.
// The zero session is returned when the middleware did not run.
func SessionFromContext(ctx context.Context) domain.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(domain.Session)
	return sess
}

// WithSession returns a context carrying the given session. Intended for
// tests and internal callers that bypass the HTTP layer.
func WithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}
