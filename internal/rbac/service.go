package rbac

import (
	"context"
)

// Service orchestrates permission resolution. It holds no mutable state;
// the catalog is read fresh from the repository per resolution and the
// key cache is refreshed only through explicit invalidation.
type Service struct {
	repo  Repository
	cache *KeysCache
}

// NewService constructs a Service.
func NewService(repo Repository, cache *KeysCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Catalog returns the full permission catalog in listing order.
func (s *Service) Catalog(ctx context.Context) ([]Permission, error) {
	return s.repo.ListCatalog(ctx)
}

// ResolveGrantedPermissions returns the permission id set linked to the
// role. A role without grants yields an empty set, not an error.
func (s *Service) ResolveGrantedPermissions(ctx context.Context, roleKey string) (map[int64]struct{}, error) {
	ids, err := s.repo.GrantedPermissionIDs(ctx, roleKey)
	if err != nil {
		return nil, err
	}
	granted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		granted[id] = struct{}{}
	}
	return granted, nil
}

// MenuTree builds the navigable menu forest for the role. includeAll
// skips the grant filter; passing it is the caller's policy decision.
func (s *Service) MenuTree(ctx context.Context, roleKey string, includeAll bool) ([]*MenuNode, error) {
	catalog, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	var granted map[int64]struct{}
	if !includeAll {
		granted, err = s.ResolveGrantedPermissions(ctx, roleKey)
		if err != nil {
			return nil, err
		}
	}
	return BuildMenuTree(catalog, granted, includeAll), nil
}

// EffectiveKeys returns the enabled permission keys granted to the role,
// served from cache when possible.
func (s *Service) EffectiveKeys(ctx context.Context, roleKey string) (map[string]struct{}, error) {
	keys, hit := s.cache.Get(ctx, roleKey)
	if !hit {
		var err error
		keys, err = s.repo.EffectiveKeys(ctx, roleKey)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, roleKey, keys)
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

// HasPermission reports whether the role holds the enabled key.
func (s *Service) HasPermission(ctx context.Context, roleKey, permissionKey string) (bool, error) {
	keys, err := s.EffectiveKeys(ctx, roleKey)
	if err != nil {
		return false, err
	}
	_, ok := keys[permissionKey]
	return ok, nil
}

// ReplaceRolePermissions swaps a role's grant set and invalidates the
// cached keys so the next check observes the new grants.
func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID int64, roleKey string, permissionIDs []int64) error {
	if err := s.repo.ReplaceRolePermissions(ctx, roleID, permissionIDs); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, roleKey)
}

// InvalidateRole drops cached keys for a role, e.g. after role deletion.
func (s *Service) InvalidateRole(ctx context.Context, roleKey string) error {
	return s.cache.Invalidate(ctx, roleKey)
}
