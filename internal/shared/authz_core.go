package shared

// Role keys with platform-level meaning.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Core platform permissions.
const (
	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermRolesView = "roles.view"
	PermRolesEdit = "roles.edit"

	PermPermissionsView = "permissions.view"

	PermVehiclesView = "vehicles.view"
	PermVehiclesEdit = "vehicles.edit"

	PermVehicleEntriesView = "vehicles.entries.view"
	PermVehicleEntriesEdit = "vehicles.entries.edit"
)
