package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ganot/rollcall/internal/identity"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type identityKey struct{}

// IdentityResolver resolves a caller identity from a bearer token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (identity.Identity, error)
}

// IdentityFromContext returns the caller identity from context, if
// present.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(identity.Identity)
	return id, ok
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			id, err := resolver.ResolveIdentity(r.Context(), token)
			if err != nil || id.UserID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role differs from want.
func RequireRole(want identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "missing identity", http.StatusUnauthorized)
				return
			}
			if id.Role != want {
				http.Error(w, "forbidden for role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
