package repository

import (
	"context"

	"anonboard/internal/domain"
)

// ConversationRepository defines persistence operations for direct
// messaging: conversations and the messages inside them.
type ConversationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, conv *domain.Conversation) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Conversation, error)
	Accept(ctx context.Context, id int64) error
	CreateMessage(ctx context.Context, msg *domain.Message) (int64, error)
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
}
