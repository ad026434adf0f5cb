package vehicles

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

// Handler manages vehicle endpoints. Every route sits behind a
// fine-grained permission key.
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

// MountRoutes registers vehicle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermVehiclesView))
		r.Get("/", h.listVehicles)
		r.Get("/{id}", h.getVehicle)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermVehiclesEdit))
		r.Post("/", h.createVehicle)
		r.Put("/{id}", h.updateVehicle)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermVehicleEntriesView))
		r.Get("/{id}/entries", h.listEntries)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermVehicleEntriesEdit))
		r.Post("/{id}/entries", h.createEntry)
	})
}

type vehiclePayload struct {
	ID                 int64      `json:"id"`
	VIN                string     `json:"vin"`
	Make               string     `json:"make"`
	Model              string     `json:"model"`
	Year               int32      `json:"year"`
	Status             string     `json:"status"`
	PurchasePriceCents int64      `json:"purchase_price_cents"`
	PurchasedAt        time.Time  `json:"purchased_at"`
	SalePriceCents     *int64     `json:"sale_price_cents"`
	SoldAt             *time.Time `json:"sold_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type entryPayload struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	Kind        string    `json:"kind"`
	Label       string    `json:"label"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type createVehicleRequest struct {
	VIN                string     `json:"vin" validate:"required"`
	Make               string     `json:"make" validate:"required"`
	Model              string     `json:"model" validate:"required"`
	Year               int32      `json:"year" validate:"required"`
	PurchasePriceCents int64      `json:"purchase_price_cents" validate:"gte=0"`
	PurchasedAt        *time.Time `json:"purchased_at"`
}

type updateVehicleRequest struct {
	Make           string     `json:"make" validate:"required"`
	Model          string     `json:"model" validate:"required"`
	Year           int32      `json:"year" validate:"required"`
	Status         string     `json:"status" validate:"required"`
	SalePriceCents *int64     `json:"sale_price_cents"`
	SoldAt         *time.Time `json:"sold_at"`
}

type createEntryRequest struct {
	Kind        string     `json:"kind" validate:"required"`
	Label       string     `json:"label" validate:"required"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	OccurredAt  *time.Time `json:"occurred_at"`
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	items, pg, err := h.service.ListVehicles(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list vehicles", slog.Any("error", err))
		httpx.RespondError(w, shared.ErrRepositoryUnavailable)
		return
	}
	payload := make([]vehiclePayload, 0, len(items))
	for _, v := range items {
		payload = append(payload, toVehiclePayload(v))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"vehicles": payload,
		"pagination": map[string]int{
			"page":        pg.Page,
			"per_page":    pg.PerPage,
			"total":       pg.Total,
			"total_pages": pg.TotalPages,
		},
	})
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	v, err := h.service.GetVehicle(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vehicle": toVehiclePayload(v)})
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}
	v := Vehicle{
		VIN:                req.VIN,
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		PurchasePriceCents: req.PurchasePriceCents,
	}
	if req.PurchasedAt != nil {
		v.PurchasedAt = *req.PurchasedAt
	}
	created, err := h.service.CreateVehicle(r.Context(), shared.IdentityFromContext(r.Context()), v)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"vehicle": toVehiclePayload(created)})
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, err := h.service.UpdateVehicle(r.Context(), shared.IdentityFromContext(r.Context()), Vehicle{
		ID:             id,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Status:         req.Status,
		SalePriceCents: req.SalePriceCents,
		SoldAt:         req.SoldAt,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vehicle": toVehiclePayload(updated)})
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListEntries(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	payload := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, toEntryPayload(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": payload})
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req createEntryRequest
	if !h.decode(w, r, &req) {
		return
	}
	e := Entry{
		VehicleID:   id,
		Kind:        req.Kind,
		Label:       req.Label,
		AmountCents: req.AmountCents,
	}
	if req.OccurredAt != nil {
		e.OccurredAt = *req.OccurredAt
	}
	created, err := h.service.CreateEntry(r.Context(), shared.IdentityFromContext(r.Context()), e)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"entry": toEntryPayload(created)})
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

func toVehiclePayload(v Vehicle) vehiclePayload {
	return vehiclePayload{
		ID:                 v.ID,
		VIN:                v.VIN,
		Make:               v.Make,
		Model:              v.Model,
		Year:               v.Year,
		Status:             v.Status,
		PurchasePriceCents: v.PurchasePriceCents,
		PurchasedAt:        v.PurchasedAt,
		SalePriceCents:     v.SalePriceCents,
		SoldAt:             v.SoldAt,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func toEntryPayload(e Entry) entryPayload {
	return entryPayload{
		ID:          e.ID,
		VehicleID:   e.VehicleID,
		Kind:        e.Kind,
		Label:       e.Label,
		AmountCents: e.AmountCents,
		OccurredAt:  e.OccurredAt,
		CreatedAt:   e.CreatedAt,
	}
}
