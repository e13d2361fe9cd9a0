package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/realty-api/internal/domain"
	jwtinfra "github.com/realty-api/internal/infrastructure/jwt"
)

type contextKey string

const userKey contextKey = "currentUser"

// userSource resolves the authenticated user from the store, so handlers see
// the user's current role and not the one baked into the token.
type userSource interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer access token, loads the
// user it names, and threads the user through the request context. Requests
// for users that no longer exist are rejected.
func Auth(provider *jwtinfra.Provider, users userSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := provider.VerifyAccess(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "user not found")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// WithUser returns a copy of ctx carrying u as the authenticated user. Tests
// use it to exercise guarded handlers without a token round trip.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
