package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
	"anonboard/internal/repository/sqlite"
	"anonboard/internal/service"
)

func newTestMessaging(t *testing.T) (service.MessagingService, *domain.User, *domain.User) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	conversations := sqlite.NewConversationRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, conversations.Init(ctx))

	alice := &domain.User{Username: "alice", HashedPassword: "h"}
	bob := &domain.User{Username: "bob", HashedPassword: "h"}
	_, err = users.Create(ctx, alice)
	require.NoError(t, err)
	_, err = users.Create(ctx, bob)
	require.NoError(t, err)

	return service.NewMessagingService(conversations, users), alice, bob
}

func TestConversationFlow(t *testing.T) {
	svc, alice, bob := newTestMessaging(t)
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, conv.Accepted)

	// messages blocked until the recipient accepts
	_, err = svc.SendMessage(ctx, alice.ID, conv.ID, "hi bob")
	assert.ErrorIs(t, err, service.ErrConversationPending)

	// only the recipient may accept
	err = svc.AcceptConversation(ctx, alice.ID, conv.ID)
	assert.ErrorIs(t, err, service.ErrNotParticipant)
	require.NoError(t, svc.AcceptConversation(ctx, bob.ID, conv.ID))

	msg, err := svc.SendMessage(ctx, alice.ID, conv.ID, "hi bob")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", msg.Content)

	msgs, err := svc.ListMessages(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, alice.ID, msgs[0].SenderID)
}

func TestConversationOutsiderRejected(t *testing.T) {
	svc, alice, bob := newTestMessaging(t)
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptConversation(ctx, bob.ID, conv.ID))

	_, err = svc.SendMessage(ctx, 999, conv.ID, "intrude")
	assert.ErrorIs(t, err, service.ErrNotParticipant)

	_, err = svc.ListMessages(ctx, 999, conv.ID)
	assert.ErrorIs(t, err, service.ErrNotParticipant)
}

func TestStartConversationValidation(t *testing.T) {
	svc, alice, _ := newTestMessaging(t)
	ctx := context.Background()

	_, err := svc.StartConversation(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.StartConversation(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
