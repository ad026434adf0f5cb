package vehicles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/motorlane/motorlane/internal/shared"
)

// RepositoryPort defines data access methods for vehicles.
type RepositoryPort interface {
	ListVehicles(ctx context.Context, page shared.Pagination) ([]Vehicle, int, error)
	GetVehicle(ctx context.Context, id int64) (Vehicle, error)
	CreateVehicle(ctx context.Context, v Vehicle) (Vehicle, error)
	UpdateVehicle(ctx context.Context, v Vehicle) (Vehicle, error)
	ListEntries(ctx context.Context, vehicleID int64) ([]Entry, error)
	CreateEntry(ctx context.Context, e Entry) (Entry, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const vehicleColumns = `id, vin, make, model, year, status, purchase_price_cents, purchased_at, sale_price_cents, sold_at, created_at, updated_at`

// ListVehicles returns one page of vehicles and the total row count. The
// page and the count are fetched concurrently.
func (r *Repository) ListVehicles(ctx context.Context, page shared.Pagination) ([]Vehicle, int, error) {
	var (
		items []Vehicle
		total int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+vehicleColumns+`
			FROM vehicles
			ORDER BY id DESC
			LIMIT $1 OFFSET $2`, page.PerPage, page.Offset())
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v Vehicle
			if err := scanVehicle(rows, &v); err != nil {
				return err
			}
			items = append(items, v)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetVehicle fetches a vehicle by ID.
func (r *Repository) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	var v Vehicle
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	if err := scanVehicle(row, &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, shared.ErrNotFound
		}
		return Vehicle{}, err
	}
	return v, nil
}

// CreateVehicle inserts a new vehicle.
func (r *Repository) CreateVehicle(ctx context.Context, v Vehicle) (Vehicle, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (vin, make, model, year, status, purchase_price_cents, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		v.VIN, v.Make, v.Model, v.Year, v.Status, v.PurchasePriceCents, v.PurchasedAt).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Vehicle{}, shared.ErrDuplicate
		}
		return Vehicle{}, err
	}
	return r.GetVehicle(ctx, id)
}

// UpdateVehicle updates mutable vehicle fields.
func (r *Repository) UpdateVehicle(ctx context.Context, v Vehicle) (Vehicle, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vehicles
		SET make = $2, model = $3, year = $4, status = $5, sale_price_cents = $6, sold_at = $7, updated_at = NOW()
		WHERE id = $1`,
		v.ID, v.Make, v.Model, v.Year, v.Status, v.SalePriceCents, v.SoldAt)
	if err != nil {
		return Vehicle{}, err
	}
	if tag.RowsAffected() == 0 {
		return Vehicle{}, shared.ErrNotFound
	}
	return r.GetVehicle(ctx, v.ID)
}

// ListEntries returns all entries of a vehicle, newest first.
func (r *Repository) ListEntries(ctx context.Context, vehicleID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_id, kind, label, amount_cents, occurred_at, created_at
		FROM vehicle_entries
		WHERE vehicle_id = $1
		ORDER BY occurred_at DESC, id DESC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.Kind, &e.Label, &e.AmountCents, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateEntry inserts a cost or revenue line.
func (r *Repository) CreateEntry(ctx context.Context, e Entry) (Entry, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vehicle_entries (vehicle_id, kind, label, amount_cents, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		e.VehicleID, e.Kind, e.Label, e.AmountCents, e.OccurredAt).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func scanVehicle(row pgx.Row, v *Vehicle) error {
	return row.Scan(
		&v.ID, &v.VIN, &v.Make, &v.Model, &v.Year, &v.Status,
		&v.PurchasePriceCents, &v.PurchasedAt, &v.SalePriceCents, &v.SoldAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
}

var _ RepositoryPort = (*Repository)(nil)
