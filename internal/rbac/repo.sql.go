package rbac

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/motorlane/internal/platform/db"
)

// Repository defines catalog and grant lookups for the rbac module.
type Repository interface {
	ListCatalog(ctx context.Context) ([]Permission, error)
	GrantedPermissionIDs(ctx context.Context, roleKey string) ([]int64, error)
	EffectiveKeys(ctx context.Context, roleKey string) ([]string, error)
	ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListCatalog returns the full permission catalog. Listing order is
// sort_order descending; the menu builder re-sorts ascending on its own.
func (r *PGRepository) ListCatalog(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, parent_id, name, key, type, path, icon, sort_order, status, created_at
		FROM permissions
		ORDER BY sort_order DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.ParentID, &p.Name, &p.Key, &p.Type, &p.Path, &p.Icon, &p.SortOrder, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// GrantedPermissionIDs returns the permission ids linked to the role.
// A role without grants yields an empty slice.
func (r *PGRepository) GrantedPermissionIDs(ctx context.Context, roleKey string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rp.permission_id
		FROM role_permissions rp
		JOIN roles r ON r.id = rp.role_id
		WHERE r.key = $1`, roleKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// EffectiveKeys returns the enabled, authorizing permission keys granted
// to the role. Rows with unrecognized types never authorize.
func (r *PGRepository) EffectiveKeys(ctx context.Context, roleKey string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.key
		FROM role_permissions rp
		JOIN roles r ON r.id = rp.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE r.key = $1
		  AND p.status = 1
		  AND p.type IN ('menu', 'button', 'api')`, roleKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// ReplaceRolePermissions swaps the grant set of a role atomically.
func (r *PGRepository) ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		for _, permID := range permissionIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				roleID, permID); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ Repository = (*PGRepository)(nil)
