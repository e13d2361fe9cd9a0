package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realty-api/internal/domain"
)

// RequireSelfOrAdmin guards user mutation routes: the authenticated user must
// be the {id} in the path, or an admin.
func RequireSelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if u.UserID != chi.URLParam(r, "id") && u.Role != domain.RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "cannot modify another user")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows access only to users whose role matches one of the
// provided role names.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range allowedRoles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
