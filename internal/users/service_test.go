package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

type mockRepo struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMockRepo(seed ...User) *mockRepo {
	m := &mockRepo{users: make(map[int64]User), hashes: make(map[int64]string), nextID: 1}
	for _, u := range seed {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockRepo) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockRepo) GetUser(ctx context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) CreateUser(ctx context.Context, username, passwordHash, name string, roleID int64) (User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return User{}, shared.ErrDuplicate
		}
	}
	user := User{ID: m.nextID, Username: username, Name: name, RoleID: roleID, RoleKey: "admin", IsActive: true}
	m.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	m.nextID++
	return user, nil
}

func (m *mockRepo) UpdateUser(ctx context.Context, id int64, name string, roleID int64, isActive bool) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.Name = name
	u.RoleID = roleID
	u.IsActive = isActive
	m.users[id] = u
	return u, nil
}

func superAdminActor() *shared.Identity {
	return &shared.Identity{UserID: 1, Role: shared.RoleSuperAdmin}
}

func adminActor() *shared.Identity {
	return &shared.Identity{UserID: 2, Role: "admin"}
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, audit.NopRecorder{})

	user, err := svc.CreateUser(context.Background(), superAdminActor(), "desk", "s3cret", "Desk User", 3)
	require.NoError(t, err)
	assert.Equal(t, "desk", user.Username)

	hash := repo.hashes[user.ID]
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockRepo(), audit.NopRecorder{})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, superAdminActor(), "", "pw", "", 1)
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateUser(ctx, superAdminActor(), "user", "", "", 1)
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateUser(ctx, superAdminActor(), "user", "pw", "", 0)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateUserDuplicate(t *testing.T) {
	svc := NewService(newMockRepo(User{ID: 1, Username: "desk", RoleKey: "admin", IsActive: true}), audit.NopRecorder{})

	_, err := svc.CreateUser(context.Background(), superAdminActor(), "desk", "pw", "", 3)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateSuperAdminUserGuard(t *testing.T) {
	target := User{ID: 5, Username: "root", RoleID: 1, RoleKey: shared.RoleSuperAdmin, IsActive: true}
	svc := NewService(newMockRepo(target), audit.NopRecorder{})
	ctx := context.Background()

	// A plain admin cannot touch a super_admin account, not even to
	// toggle the active flag.
	_, err := svc.UpdateUser(ctx, adminActor(), 5, "Root", 1, false)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := svc.UpdateUser(ctx, superAdminActor(), 5, "Root", 1, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewService(newMockRepo(), audit.NopRecorder{})

	_, err := svc.UpdateUser(context.Background(), superAdminActor(), 404, "x", 1, true)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
