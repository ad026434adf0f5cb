package vehicles

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/shared"
)

// Service handles vehicle business rules.
type Service struct {
	repo     RepositoryPort
	recorder audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// ListVehicles returns one page of vehicles with pagination metadata.
func (s *Service) ListVehicles(ctx context.Context, page, perPage int) ([]Vehicle, shared.Pagination, error) {
	pg := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.ListVehicles(ctx, pg)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(pg.Page, pg.PerPage, total), nil
}

// GetVehicle fetches a vehicle by ID.
func (s *Service) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

// CreateVehicle registers a newly purchased vehicle on the lot.
func (s *Service) CreateVehicle(ctx context.Context, actor *shared.Identity, v Vehicle) (Vehicle, error) {
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	if v.VIN == "" || strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return Vehicle{}, shared.ErrValidation
	}
	if v.Year < 1900 || v.Year > int32(time.Now().Year()+1) {
		return Vehicle{}, shared.ErrValidation
	}
	if v.PurchasePriceCents < 0 {
		return Vehicle{}, shared.ErrValidation
	}
	if v.PurchasedAt.IsZero() {
		v.PurchasedAt = time.Now().UTC()
	}
	v.Status = StatusInStock
	created, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		return Vehicle{}, err
	}
	s.record(ctx, actor, "vehicles.create", created.ID, map[string]any{"vin": created.VIN})
	return created, nil
}

// UpdateVehicle updates vehicle details. Marking a vehicle sold requires
// a sale price and sale date.
func (s *Service) UpdateVehicle(ctx context.Context, actor *shared.Identity, v Vehicle) (Vehicle, error) {
	current, err := s.repo.GetVehicle(ctx, v.ID)
	if err != nil {
		return Vehicle{}, err
	}
	switch v.Status {
	case StatusInStock:
		v.SalePriceCents = nil
		v.SoldAt = nil
	case StatusSold:
		if v.SalePriceCents == nil || v.SoldAt == nil {
			return Vehicle{}, shared.ErrValidation
		}
	default:
		return Vehicle{}, shared.ErrValidation
	}
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return Vehicle{}, shared.ErrValidation
	}
	v.VIN = current.VIN
	updated, err := s.repo.UpdateVehicle(ctx, v)
	if err != nil {
		return Vehicle{}, err
	}
	s.record(ctx, actor, "vehicles.update", updated.ID, map[string]any{"status": updated.Status})
	return updated, nil
}

// ListEntries returns the cost/revenue lines of a vehicle.
func (s *Service) ListEntries(ctx context.Context, vehicleID int64) ([]Entry, error) {
	if _, err := s.repo.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, vehicleID)
}

// CreateEntry attaches a cost or revenue line to a vehicle.
func (s *Service) CreateEntry(ctx context.Context, actor *shared.Identity, e Entry) (Entry, error) {
	if e.Kind != KindCost && e.Kind != KindRevenue {
		return Entry{}, shared.ErrValidation
	}
	if strings.TrimSpace(e.Label) == "" || e.AmountCents <= 0 {
		return Entry{}, shared.ErrValidation
	}
	if _, err := s.repo.GetVehicle(ctx, e.VehicleID); err != nil {
		return Entry{}, err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	created, err := s.repo.CreateEntry(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	s.record(ctx, actor, "vehicles.entry_create", created.VehicleID, map[string]any{
		"entry_id": created.ID,
		"kind":     created.Kind,
		"amount":   created.AmountCents,
	})
	return created, nil
}

func (s *Service) record(ctx context.Context, actor *shared.Identity, action string, vehicleID int64, meta map[string]any) {
	if s.recorder == nil {
		return
	}
	var actorID int64
	if actor != nil {
		actorID = actor.UserID
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "vehicle",
		EntityID: strconv.FormatInt(vehicleID, 10),
		Meta:     meta,
	})
}
