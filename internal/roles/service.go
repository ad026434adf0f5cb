package roles

import (
	"context"
	"strconv"
	"strings"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/rbac"
	"github.com/motorlane/motorlane/internal/shared"
)

// Service handles role business rules, including the super_admin
// sentinel: that role can never be deleted, and only a super-admin actor
// may touch it at all.
type Service struct {
	repo     RepositoryPort
	rbac     *rbac.Service
	recorder audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, rbacService *rbac.Service, recorder audit.Recorder) *Service {
	return &Service{repo: repo, rbac: rbacService, recorder: recorder}
}

// ListRoles returns all active roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role. The super_admin key is reserved.
func (s *Service) CreateRole(ctx context.Context, actor *shared.Identity, name, key, description string) (Role, error) {
	name = strings.TrimSpace(name)
	key = strings.TrimSpace(key)
	if name == "" || key == "" {
		return Role{}, shared.ErrValidation
	}
	if key == shared.RoleSuperAdmin {
		return Role{}, shared.ErrForbidden
	}
	role, err := s.repo.CreateRole(ctx, name, key, strings.TrimSpace(description))
	if err != nil {
		return Role{}, err
	}
	s.record(ctx, actor, "roles.create", role.ID, nil)
	return role, nil
}

// UpdateRole updates an existing role. A non-super-admin actor can never
// modify the super_admin role, regardless of payload.
func (s *Service) UpdateRole(ctx context.Context, actor *shared.Identity, id int64, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, shared.ErrValidation
	}
	target, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if err := guardSuperAdminTarget(actor, target.Key); err != nil {
		return Role{}, err
	}
	role, err := s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description))
	if err != nil {
		return Role{}, err
	}
	s.record(ctx, actor, "roles.update", role.ID, nil)
	return role, nil
}

// DeleteRole soft-deletes a role and drops its grants. The super_admin
// role can never be deleted by anyone.
func (s *Service) DeleteRole(ctx context.Context, actor *shared.Identity, id int64) error {
	target, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if target.Key == shared.RoleSuperAdmin {
		return shared.ErrForbidden
	}
	if err := s.repo.SoftDeleteRole(ctx, id); err != nil {
		return err
	}
	if err := s.rbac.InvalidateRole(ctx, target.Key); err != nil {
		return err
	}
	s.record(ctx, actor, "roles.delete", id, nil)
	return nil
}

// SetPermissions replaces the role's grant set.
func (s *Service) SetPermissions(ctx context.Context, actor *shared.Identity, id int64, permissionIDs []int64) error {
	target, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if err := guardSuperAdminTarget(actor, target.Key); err != nil {
		return err
	}
	if err := s.rbac.ReplaceRolePermissions(ctx, id, target.Key, permissionIDs); err != nil {
		return err
	}
	s.record(ctx, actor, "roles.set_permissions", id, map[string]any{"count": len(permissionIDs)})
	return nil
}

func guardSuperAdminTarget(actor *shared.Identity, targetRoleKey string) error {
	if targetRoleKey != shared.RoleSuperAdmin {
		return nil
	}
	if actor == nil || actor.Role != shared.RoleSuperAdmin {
		return shared.ErrForbidden
	}
	return nil
}

func (s *Service) record(ctx context.Context, actor *shared.Identity, action string, roleID int64, meta map[string]any) {
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
		Entity:   "role",
		EntityID: strconv.FormatInt(roleID, 10),
		Meta:     meta,
	})
}
