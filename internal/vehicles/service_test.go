package vehicles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

type mockRepo struct {
	vehicles map[int64]Vehicle
	entries  map[int64][]Entry
	nextID   int64
}

func newMockRepo(seed ...Vehicle) *mockRepo {
	m := &mockRepo{vehicles: make(map[int64]Vehicle), entries: make(map[int64][]Entry), nextID: 1}
	for _, v := range seed {
		m.vehicles[v.ID] = v
		if v.ID >= m.nextID {
			m.nextID = v.ID + 1
		}
	}
	return m
}

func (m *mockRepo) ListVehicles(ctx context.Context, page shared.Pagination) ([]Vehicle, int, error) {
	var out []Vehicle
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	return out, len(out), nil
}

func (m *mockRepo) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return Vehicle{}, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockRepo) CreateVehicle(ctx context.Context, v Vehicle) (Vehicle, error) {
	for _, existing := range m.vehicles {
		if existing.VIN == v.VIN {
			return Vehicle{}, shared.ErrDuplicate
		}
	}
	v.ID = m.nextID
	m.vehicles[v.ID] = v
	m.nextID++
	return v, nil
}

func (m *mockRepo) UpdateVehicle(ctx context.Context, v Vehicle) (Vehicle, error) {
	if _, ok := m.vehicles[v.ID]; !ok {
		return Vehicle{}, shared.ErrNotFound
	}
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *mockRepo) ListEntries(ctx context.Context, vehicleID int64) ([]Entry, error) {
	return m.entries[vehicleID], nil
}

func (m *mockRepo) CreateEntry(ctx context.Context, e Entry) (Entry, error) {
	e.ID = int64(len(m.entries[e.VehicleID]) + 1)
	m.entries[e.VehicleID] = append(m.entries[e.VehicleID], e)
	return e, nil
}

func stockVehicle() Vehicle {
	return Vehicle{
		ID:                 1,
		VIN:                "JH4KA7561PC008269",
		Make:               "Honda",
		Model:              "Civic",
		Year:               2021,
		Status:             StatusInStock,
		PurchasePriceCents: 1650000,
		PurchasedAt:        time.Now().Add(-30 * 24 * time.Hour),
	}
}

func actor() *shared.Identity {
	return &shared.Identity{UserID: 1, Role: "admin"}
}

func TestCreateVehicleNormalizesVIN(t *testing.T) {
	svc := NewService(newMockRepo(), audit.NopRecorder{})

	created, err := svc.CreateVehicle(context.Background(), actor(), Vehicle{
		VIN:   "  jh4ka7561pc008269 ",
		Make:  "Honda",
		Model: "Civic",
		Year:  2021,
	})
	require.NoError(t, err)
	assert.Equal(t, "JH4KA7561PC008269", created.VIN)
	assert.Equal(t, StatusInStock, created.Status)
	assert.False(t, created.PurchasedAt.IsZero())
}

func TestCreateVehicleValidation(t *testing.T) {
	svc := NewService(newMockRepo(), audit.NopRecorder{})
	ctx := context.Background()

	tests := []struct {
		name string
		v    Vehicle
	}{
		{"missing vin", Vehicle{Make: "Honda", Model: "Civic", Year: 2021}},
		{"missing make", Vehicle{VIN: "X", Model: "Civic", Year: 2021}},
		{"year too old", Vehicle{VIN: "X", Make: "Honda", Model: "Civic", Year: 1899}},
		{"year in the future", Vehicle{VIN: "X", Make: "Honda", Model: "Civic", Year: int32(time.Now().Year() + 2)}},
		{"negative price", Vehicle{VIN: "X", Make: "Honda", Model: "Civic", Year: 2021, PurchasePriceCents: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateVehicle(ctx, actor(), tc.v)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestCreateVehicleDuplicateVIN(t *testing.T) {
	svc := NewService(newMockRepo(stockVehicle()), audit.NopRecorder{})

	_, err := svc.CreateVehicle(context.Background(), actor(), Vehicle{
		VIN:   "jh4ka7561pc008269",
		Make:  "Honda",
		Model: "Civic",
		Year:  2021,
	})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateVehicleSoldRequiresSaleFields(t *testing.T) {
	svc := NewService(newMockRepo(stockVehicle()), audit.NopRecorder{})
	ctx := context.Background()

	v := stockVehicle()
	v.Status = StatusSold
	_, err := svc.UpdateVehicle(ctx, actor(), v)
	assert.ErrorIs(t, err, shared.ErrValidation)

	price := int64(1800000)
	soldAt := time.Now()
	v.SalePriceCents = &price
	v.SoldAt = &soldAt
	updated, err := svc.UpdateVehicle(ctx, actor(), v)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, updated.Status)
}

func TestUpdateVehicleBackToStockClearsSaleFields(t *testing.T) {
	sold := stockVehicle()
	sold.Status = StatusSold
	price := int64(1800000)
	at := time.Now()
	sold.SalePriceCents = &price
	sold.SoldAt = &at

	svc := NewService(newMockRepo(sold), audit.NopRecorder{})

	sold.Status = StatusInStock
	updated, err := svc.UpdateVehicle(context.Background(), actor(), sold)
	require.NoError(t, err)
	assert.Nil(t, updated.SalePriceCents)
	assert.Nil(t, updated.SoldAt)
}

func TestUpdateVehicleVINImmutable(t *testing.T) {
	svc := NewService(newMockRepo(stockVehicle()), audit.NopRecorder{})

	v := stockVehicle()
	v.VIN = "DIFFERENT"
	updated, err := svc.UpdateVehicle(context.Background(), actor(), v)
	require.NoError(t, err)
	assert.Equal(t, "JH4KA7561PC008269", updated.VIN)
}

func TestUpdateVehicleUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo(stockVehicle()), audit.NopRecorder{})

	v := stockVehicle()
	v.Status = "scrapped"
	_, err := svc.UpdateVehicle(context.Background(), actor(), v)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateEntry(t *testing.T) {
	svc := NewService(newMockRepo(stockVehicle()), audit.NopRecorder{})
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, actor(), Entry{VehicleID: 1, Kind: KindCost, Label: "Detailing", AmountCents: 12500})
	require.NoError(t, err)
	assert.False(t, entry.OccurredAt.IsZero())

	_, err = svc.CreateEntry(ctx, actor(), Entry{VehicleID: 1, Kind: "misc", Label: "x", AmountCents: 1})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateEntry(ctx, actor(), Entry{VehicleID: 1, Kind: KindCost, Label: "", AmountCents: 1})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateEntry(ctx, actor(), Entry{VehicleID: 1, Kind: KindCost, Label: "x", AmountCents: 0})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateEntry(ctx, actor(), Entry{VehicleID: 404, Kind: KindCost, Label: "x", AmountCents: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListEntriesVehicleMustExist(t *testing.T) {
	svc := NewService(newMockRepo(), audit.NopRecorder{})

	_, err := svc.ListEntries(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
