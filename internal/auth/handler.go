package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/shared"
)

// CookieConfig describes how the token cookie is written.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cookie    CookieConfig
	auth      Middleware
	recorder  audit.Recorder
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookie CookieConfig, auth Middleware, recorder audit.Recorder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cookie:    cookie,
		auth:      auth,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	User userPayload `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}

	token, ttl, err := h.service.Login(r.Context(), req.Username, req.Password, req.Remember)
	if err != nil {
		if h.logger != nil {
			h.logger.Info("login rejected", slog.String("username", req.Username))
		}
		httpx.RespondError(w, err)
		return
	}

	identity, err := h.service.Identify(token)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.setTokenCookie(w, token, ttl)
	if h.recorder != nil {
		h.recorder.Record(r.Context(), audit.Event{
			ActorID:  identity.UserID,
			Action:   "auth.login",
			Entity:   "user",
			EntityID: strconv.FormatInt(identity.UserID, 10),
			Meta:     map[string]any{"remember": req.Remember},
		})
	}
	httpx.JSON(w, http.StatusOK, loginResponse{User: userPayload{
		ID:       identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// The token is stateless, so logout only discards the client copy.
	h.clearTokenCookie(w)
	if id := shared.IdentityFromContext(r.Context()); id != nil && h.recorder != nil {
		h.recorder.Record(r.Context(), audit.Event{
			ActorID:  id.UserID,
			Action:   "auth.logout",
			Entity:   "user",
			EntityID: strconv.FormatInt(id.UserID, 10),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{User: userPayload{
		ID:       identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
