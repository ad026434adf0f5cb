package users

import "time"

// User represents a user account for management.
type User struct {
	ID        int64
	Username  string
	Name      string
	RoleID    int64
	RoleKey   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
