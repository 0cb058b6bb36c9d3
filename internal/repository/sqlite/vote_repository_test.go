package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
	"anonboard/internal/repository/sqlite"
)

func newVoteFixture(t *testing.T) (repository.UserRepository, repository.PostRepository, repository.VoteRepository) {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	users := sqlite.NewUserRepository(db)
	posts := sqlite.NewPostRepository(db)
	comments := sqlite.NewCommentRepository(db)
	votes := sqlite.NewVoteRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, posts.Init(ctx))
	require.NoError(t, comments.Init(ctx))
	require.NoError(t, votes.Init(ctx))
	return users, posts, votes
}

func TestCastVoteAdjustsCounters(t *testing.T) {
	users, posts, votes := newVoteFixture(t)
	ctx := context.Background()

	author := &domain.User{Username: "author", HashedPassword: "h"}
	voter := &domain.User{Username: "voter", HashedPassword: "h"}
	_, err := users.Create(ctx, author)
	require.NoError(t, err)
	_, err = users.Create(ctx, voter)
	require.NoError(t, err)

	post := &domain.Post{Content: "hello", OwnerID: author.ID}
	_, err = posts.Create(ctx, post)
	require.NoError(t, err)

	err = votes.Cast(ctx, &domain.Vote{UserID: voter.ID, PostID: post.ID, Value: domain.VoteUp})
	require.NoError(t, err)

	got, err := users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.UpvoteCount)
	assert.EqualValues(t, 0, got.DownvoteCount)
}

func TestCastVoteReplacesPrevious(t *testing.T) {
	users, posts, votes := newVoteFixture(t)
	ctx := context.Background()

	author := &domain.User{Username: "author", HashedPassword: "h"}
	voter := &domain.User{Username: "voter", HashedPassword: "h"}
	_, err := users.Create(ctx, author)
	require.NoError(t, err)
	_, err = users.Create(ctx, voter)
	require.NoError(t, err)

	post := &domain.Post{Content: "hello", OwnerID: author.ID}
	_, err = posts.Create(ctx, post)
	require.NoError(t, err)

	up := &domain.Vote{UserID: voter.ID, PostID: post.ID, Value: domain.VoteUp}
	require.NoError(t, votes.Cast(ctx, up))
	down := &domain.Vote{UserID: voter.ID, PostID: post.ID, Value: domain.VoteDown}
	require.NoError(t, votes.Cast(ctx, down))

	assert.Equal(t, up.ID, down.ID, "re-vote must replace, not duplicate")

	got, err := users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.UpvoteCount)
	assert.EqualValues(t, 1, got.DownvoteCount)

	// same value again is a no-op
	require.NoError(t, votes.Cast(ctx, &domain.Vote{UserID: voter.ID, PostID: post.ID, Value: domain.VoteDown}))
	got, err = users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.DownvoteCount)
}

func TestCastVoteMissingTarget(t *testing.T) {
	users, _, votes := newVoteFixture(t)
	ctx := context.Background()

	voter := &domain.User{Username: "voter", HashedPassword: "h"}
	_, err := users.Create(ctx, voter)
	require.NoError(t, err)

	err = votes.Cast(ctx, &domain.Vote{UserID: voter.ID, PostID: 999, Value: domain.VoteUp})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
