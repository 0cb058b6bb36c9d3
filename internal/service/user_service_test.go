package service_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/domain"
	"anonboard/internal/password"
	"anonboard/internal/repository"
	"anonboard/internal/repository/sqlite"
	"anonboard/internal/service"
)

func newTestUserService(t *testing.T) (service.UserService, repository.UserRepository) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	// bcrypt cost 4 keeps tests fast
	return service.NewUserService(users, password.NewHasher(4)), users
}

func TestRegisterSuccess(t *testing.T) {
	svc, users := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob1234", "secretpw", "hello", "")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "bob1234", user.Username)
	assert.Empty(t, user.HashedPassword, "register must never expose the hash")

	stored, err := users.GetByUsername(ctx, "bob1234")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "secretpw", stored.HashedPassword)
}

func TestRegisterUsernameTaken(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob1234", "secretpw", "", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob1234", "otherpass", "", "")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "secretpw"},
		{"long username", strings.Repeat("a", 51), "secretpw"},
		{"long multibyte username", strings.Repeat("д", 51), "secretpw"},
		{"short password", "bob1234", "short"},
		{"short multibyte password", "bob1234", strings.Repeat("п", 7)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password, "", "")
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

// limits count characters, not bytes
func TestRegisterMultibyteLengths(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	// 30 runes, 60 bytes
	name := strings.Repeat("д", 30)
	user, err := svc.Register(ctx, name, strings.Repeat("п", 8), strings.Repeat("ё", 500), "")
	require.NoError(t, err)
	assert.Equal(t, name, user.Username)

	bio := strings.Repeat("ё", 501)
	_, err = svc.UpdateProfile(ctx, user.ID, domain.UserUpdate{Bio: &bio})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob1234", "secretpw", "", "")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "bob1234", "secretpw")
	require.NoError(t, err)
	assert.Equal(t, "bob1234", user.Username)
	assert.Empty(t, user.HashedPassword)

	_, wrongPass := svc.Authenticate(ctx, "bob1234", "wrong-password")
	_, noUser := svc.Authenticate(ctx, "nobody", "secretpw")
	assert.ErrorIs(t, wrongPass, service.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, service.ErrInvalidCredentials)
	// both failures collapse to the same error to block enumeration
	assert.Equal(t, wrongPass, noUser)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob1234", "secretpw", "old bio", "http://a/x.png")
	require.NoError(t, err)

	bio := "hello"
	updated, err := svc.UpdateProfile(ctx, user.ID, domain.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "http://a/x.png", updated.AvatarURL)
}

func TestRandomUsernameAvoidsCollisions(t *testing.T) {
	svc, users := newTestUserService(t)
	ctx := context.Background()

	first, err := svc.RandomUsername(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	_, err = users.Create(ctx, &domain.User{Username: first, HashedPassword: "h"})
	require.NoError(t, err)

	second, err := svc.RandomUsername(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

// saturatedUserRepo pretends every username is taken.
type saturatedUserRepo struct {
	repository.UserRepository
}

func (saturatedUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return &domain.User{Username: username}, nil
}

func TestRandomUsernameExhausted(t *testing.T) {
	svc := service.NewUserService(saturatedUserRepo{}, password.NewHasher(4))

	_, err := svc.RandomUsername(context.Background())
	assert.ErrorIs(t, err, service.ErrUsernameSpaceExhausted)
}
