package rbac

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/shared"
)

// MenuHandler serves the caller-scoped navigation tree.
type MenuHandler struct {
	logger  *slog.Logger
	service *Service
}

// NewMenuHandler builds a MenuHandler instance.
func NewMenuHandler(logger *slog.Logger, service *Service) *MenuHandler {
	return &MenuHandler{logger: logger, service: service}
}

// MountRoutes registers menu routes.
func (h *MenuHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.listMenus)
}

type menuNodePayload struct {
	ID        int64             `json:"id"`
	ParentID  *int64            `json:"parent_id"`
	Name      string            `json:"name"`
	Key       string            `json:"key"`
	Path      *string           `json:"path"`
	Icon      *string           `json:"icon"`
	SortOrder int32             `json:"sort_order"`
	Children  []menuNodePayload `json:"children"`
}

type menuResponse struct {
	Menus []menuNodePayload `json:"menus"`
	Keys  []string          `json:"keys"`
}

func (h *MenuHandler) listMenus(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	// Super admins see the full catalog; the flag is passed explicitly
	// here, the resolver itself knows nothing about role keys.
	includeAll := identity.Role == shared.RoleSuperAdmin

	tree, err := h.service.MenuTree(r.Context(), identity.Role, includeAll)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("build menu tree", slog.String("role", identity.Role), slog.Any("error", err))
		}
		httpx.RespondError(w, shared.ErrRepositoryUnavailable)
		return
	}

	keySet := FlattenKeys(tree)
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	httpx.JSON(w, http.StatusOK, menuResponse{
		Menus: toMenuPayload(tree),
		Keys:  keys,
	})
}

func toMenuPayload(nodes []*MenuNode) []menuNodePayload {
	out := make([]menuNodePayload, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, menuNodePayload{
			ID:        n.ID,
			ParentID:  n.ParentID,
			Name:      n.Name,
			Key:       n.Key,
			Path:      n.Path,
			Icon:      n.Icon,
			SortOrder: n.SortOrder,
			Children:  toMenuPayload(n.Children),
		})
	}
	return out
}
