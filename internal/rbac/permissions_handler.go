package rbac

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/shared"
)

// PermissionsHandler manages catalog listing for administrators.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
	rbac    Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermPermissionsView))
		r.Get("/", h.listPermissions)
	})
}

type permissionPayload struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parent_id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	Path      *string   `json:"path"`
	Icon      *string   `json:"icon"`
	SortOrder int32     `json:"sort_order"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.Catalog(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("list permissions", slog.Any("error", err))
		}
		httpx.RespondError(w, shared.ErrRepositoryUnavailable)
		return
	}
	payload := make([]permissionPayload, 0, len(perms))
	for _, p := range perms {
		payload = append(payload, permissionPayload{
			ID:        p.ID,
			ParentID:  p.ParentID,
			Name:      p.Name,
			Key:       p.Key,
			Type:      p.Type,
			Path:      p.Path,
			Icon:      p.Icon,
			SortOrder: p.SortOrder,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": payload})
}
