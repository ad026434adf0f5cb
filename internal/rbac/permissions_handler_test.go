package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

func TestListPermissionsPreservesCatalogOrder(t *testing.T) {
	repo := newMockRepo()
	// Catalog order as the repository returns it: sort_order descending.
	// The listing endpoint must not re-sort; only the menu tree does.
	repo.catalog = []Permission{
		perm(1, nil, "high", TypeMenu, 90, StatusEnabled),
		perm(2, nil, "mid", TypeButton, 50, StatusEnabled),
		perm(3, nil, "low", "action", 10, StatusDisabled),
	}
	repo.keys["admin"] = []string{shared.PermPermissionsView}
	svc := newTestService(t, repo)
	handler := NewPermissionsHandler(nil, svc, Middleware{Service: svc})

	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{UserID: 1, Role: "admin"}))
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body struct {
		Permissions []permissionPayload `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Permissions, 3)
	assert.Equal(t, "high", body.Permissions[0].Key)
	assert.Equal(t, "mid", body.Permissions[1].Key)
	assert.Equal(t, "low", body.Permissions[2].Key)
	// Disabled and unknown-type rows stay listed in the catalog.
	assert.Equal(t, "action", body.Permissions[2].Type)
}

func TestListPermissionsRequiresPermission(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	handler := NewPermissionsHandler(nil, svc, Middleware{Service: svc})

	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{UserID: 2, Role: "sales"}))
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}
