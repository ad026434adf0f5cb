package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/motorlane/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, username, passwordHash, name string, roleID int64) (User, error)
	UpdateUser(ctx context.Context, id int64, name string, roleID int64, isActive bool) (User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `u.id, u.username, u.name, u.role_id, r.key, u.is_active, u.created_at, u.updated_at`

// ListUsers returns all users with their role keys.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.RoleID, &user.RoleKey, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, id).Scan(&user.ID, &user.Username, &user.Name, &user.RoleID, &user.RoleKey, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash, name string, roleID int64) (User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, name, role_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id`,
		username, passwordHash, name, roleID).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return r.GetUser(ctx, id)
}

// UpdateUser updates profile fields, role assignment and active flag.
func (r *Repository) UpdateUser(ctx context.Context, id int64, name string, roleID int64, isActive bool) (User, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, role_id = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1`,
		id, name, roleID, isActive)
	if err != nil {
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.GetUser(ctx, id)
}

var _ RepositoryPort = (*Repository)(nil)
