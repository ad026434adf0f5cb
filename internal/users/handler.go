package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/rbac"
	"github.com/motorlane/motorlane/internal/shared"
)

// Handler manages user administration endpoints. User management is
// coarse-gated by role: only admin and super_admin may enter.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbacMW, validator: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
		r.Post("/", h.createUser)
		r.Put("/{id}", h.updateUser)
	})
}

type userPayload struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	RoleID    int64     `json:"role_id"`
	RoleKey   string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, shared.ErrRepositoryUnavailable)
		return
	}
	payload := make([]userPayload, 0, len(users))
	for _, user := range users {
		payload = append(payload, toUserPayload(user))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": payload})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.CreateUser(r.Context(), shared.IdentityFromContext(r.Context()), req.Username, req.Password, req.Name, req.RoleID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"user": toUserPayload(user)})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.UpdateUser(r.Context(), shared.IdentityFromContext(r.Context()), id, req.Name, req.RoleID, req.IsActive)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return 0, false
	}
	return id, true
}

func toUserPayload(user User) userPayload {
	return userPayload{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		RoleID:    user.RoleID,
		RoleKey:   user.RoleKey,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
