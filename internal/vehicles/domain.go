package vehicles

import "time"

// Vehicle statuses.
const (
	StatusInStock = "in_stock"
	StatusSold    = "sold"
)

// Entry kinds.
const (
	KindCost    = "cost"
	KindRevenue = "revenue"
)

// Vehicle is a unit on the lot with its purchase/sale lifecycle.
type Vehicle struct {
	ID                 int64
	VIN                string
	Make               string
	Model              string
	Year               int32
	Status             string
	PurchasePriceCents int64
	PurchasedAt        time.Time
	SalePriceCents     *int64
	SoldAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Entry is a revenue or cost line attached to a vehicle.
type Entry struct {
	ID          int64
	VehicleID   int64
	Kind        string
	Label       string
	AmountCents int64
	OccurredAt  time.Time
	CreatedAt   time.Time
}
