package roles

import "time"

// Role represents a named bundle of permissions assignable to users.
type Role struct {
	ID          int64
	Name        string
	Key         string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
