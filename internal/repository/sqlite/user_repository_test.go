package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
	"anonboard/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	repo := sqlite.NewUserRepository(newTestDB(t))
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestUserCreateAndGet(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "alice", HashedPassword: "hash", Bio: "hi"}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, id)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
	assert.Equal(t, "hash", byName.HashedPassword)
	assert.Equal(t, "hi", byName.Bio)
	assert.False(t, byName.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserGetNotFound(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.User{Username: "alice", HashedPassword: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", HashedPassword: "h2"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserUpdatePartial(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "alice", HashedPassword: "h", Bio: "old bio", AvatarURL: "http://a/old.png"}
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	bio := "new bio"
	updated, err := repo.Update(ctx, user.ID, domain.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "http://a/old.png", updated.AvatarURL, "absent field must stay untouched")

	empty := ""
	updated, err = repo.Update(ctx, user.ID, domain.UserUpdate{AvatarURL: &empty})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Empty(t, updated.AvatarURL, "present-but-empty field must overwrite")
}

func TestUserUpdateNoFields(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "alice", HashedPassword: "h", Bio: "bio"}
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, user.ID, domain.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "bio", updated.Bio)
}

func TestUserUpdateMissingUser(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	bio := "bio"
	_, err := repo.Update(ctx, 42, domain.UserUpdate{Bio: &bio})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
