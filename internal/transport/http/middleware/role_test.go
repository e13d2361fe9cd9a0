package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/realty-api/internal/domain"
)

func requestAs(u *domain.User, pathID string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/users/"+pathID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", pathID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if u != nil {
		ctx = WithUser(ctx, u)
	}
	return req.WithContext(ctx)
}

func TestRequireSelfOrAdmin_NoUserInContext(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireSelfOrAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestAs(nil, "u1"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSelfOrAdmin_Self(t *testing.T) {
	rr := httptest.NewRecorder()
	u := &domain.User{UserID: "u1", Role: domain.RoleUser}
	RequireSelfOrAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestAs(u, "u1"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireSelfOrAdmin_OtherUserForbidden(t *testing.T) {
	rr := httptest.NewRecorder()
	u := &domain.User{UserID: "u1", Role: domain.RoleBroker}
	RequireSelfOrAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestAs(u, "u2"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireSelfOrAdmin_AdminMayModifyAnyone(t *testing.T) {
	rr := httptest.NewRecorder()
	u := &domain.User{UserID: "u-admin", Role: domain.RoleAdmin}
	RequireSelfOrAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestAs(u, "u2"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	u := &domain.User{Role: domain.RoleUser}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), u))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	u := &domain.User{Role: domain.RoleAgent}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), u))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin, domain.RoleAgent)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
