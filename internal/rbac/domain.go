package rbac

import "time"

// Permission types understood by the platform. Rows carrying any other
// type stay in the catalog but never authorize and never render as menus.
const (
	TypeMenu   = "menu"
	TypeButton = "button"
	TypeAPI    = "api"
)

// Permission status values.
const (
	StatusDisabled int16 = 0
	StatusEnabled  int16 = 1
)

// Permission is an atomic grantable capability or navigable entry. The
// catalog forms a forest through ParentID self-references.
type Permission struct {
	ID        int64
	ParentID  *int64
	Name      string
	Key       string
	Type      string
	Path      *string
	Icon      *string
	SortOrder int32
	Status    int16
	CreatedAt time.Time
}

// RolePermission ties a permission to a role. Unique on the pair.
type RolePermission struct {
	RoleID       int64
	PermissionID int64
	CreatedAt    time.Time
}

// MenuNode is a permission of type menu with its attached children.
type MenuNode struct {
	Permission
	Children []*MenuNode
}
