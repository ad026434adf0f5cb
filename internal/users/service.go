package users

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/shared"
)

// Service handles user business logic. A non-super-admin actor can never
// modify a user who holds the super_admin role, whatever the payload.
type Service struct {
	repo     RepositoryPort
	recorder audit.Recorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser hashes the password and inserts the account.
func (s *Service) CreateUser(ctx context.Context, actor *shared.Identity, username, password, name string, roleID int64) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || roleID <= 0 {
		return User{}, shared.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, username, string(hash), strings.TrimSpace(name), roleID)
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actor, "users.create", user.ID, nil)
	return user, nil
}

// UpdateUser updates profile, role assignment and active flag.
func (s *Service) UpdateUser(ctx context.Context, actor *shared.Identity, id int64, name string, roleID int64, isActive bool) (User, error) {
	if roleID <= 0 {
		return User{}, shared.ErrValidation
	}
	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if target.RoleKey == shared.RoleSuperAdmin && (actor == nil || actor.Role != shared.RoleSuperAdmin) {
		return User{}, shared.ErrForbidden
	}
	user, err := s.repo.UpdateUser(ctx, id, strings.TrimSpace(name), roleID, isActive)
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actor, "users.update", user.ID, map[string]any{"is_active": isActive})
	return user, nil
}

func (s *Service) record(ctx context.Context, actor *shared.Identity, action string, userID int64, meta map[string]any) {
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
		Entity:   "user",
		EntityID: strconv.FormatInt(userID, 10),
		Meta:     meta,
	})
}
