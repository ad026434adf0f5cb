package rbac

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(identity *shared.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if identity != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
	}
	return req
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{}

	tests := []struct {
		name     string
		roles    []string
		identity *shared.Identity
		want     int
	}{
		{"no identity", []string{"admin"}, nil, http.StatusUnauthorized},
		{"role allowed", []string{"admin", "super_admin"}, &shared.Identity{Role: "admin"}, http.StatusOK},
		{"role not allowed", []string{"admin"}, &shared.Identity{Role: "sales"}, http.StatusForbidden},
		{"empty set rejects everything", nil, &shared.Identity{Role: "super_admin"}, http.StatusForbidden},
		{"blank entries ignored", []string{"  ", ""}, &shared.Identity{Role: "admin"}, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			mw.RequireRole(tc.roles...)(okHandler()).ServeHTTP(res, requestAs(tc.identity))
			assert.Equal(t, tc.want, res.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	repo := newMockRepo()
	repo.keys["admin"] = []string{"vehicles.view"}
	mw := Middleware{Service: newTestService(t, repo)}

	t.Run("no identity", func(t *testing.T) {
		res := httptest.NewRecorder()
		mw.RequirePermission("vehicles.view")(okHandler()).ServeHTTP(res, requestAs(nil))
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("granted", func(t *testing.T) {
		res := httptest.NewRecorder()
		mw.RequirePermission("vehicles.view")(okHandler()).ServeHTTP(res, requestAs(&shared.Identity{Role: "admin"}))
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("not granted", func(t *testing.T) {
		res := httptest.NewRecorder()
		mw.RequirePermission("vehicles.edit")(okHandler()).ServeHTTP(res, requestAs(&shared.Identity{Role: "admin"}))
		assert.Equal(t, http.StatusForbidden, res.Code)
	})
}

func TestRequirePermissionFailsClosed(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("connection refused")
	mw := Middleware{Service: newTestService(t, repo)}

	res := httptest.NewRecorder()
	mw.RequirePermission("vehicles.view")(okHandler()).ServeHTTP(res, requestAs(&shared.Identity{Role: "admin"}))
	assert.Equal(t, http.StatusForbidden, res.Code)
}
