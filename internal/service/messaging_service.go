package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
)

var (
	// ErrNotParticipant is returned when a user touches a conversation
	// they are not part of.
	ErrNotParticipant = errors.New("not a conversation participant")
	// ErrConversationPending is returned when messaging a conversation
	// the recipient has not accepted yet.
	ErrConversationPending = errors.New("conversation not accepted")
)

// MessagingService covers direct messaging between two users.
type MessagingService interface {
	StartConversation(ctx context.Context, initiatorID, recipientID int64) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error)
	AcceptConversation(ctx context.Context, userID, conversationID int64) error
	SendMessage(ctx context.Context, senderID, conversationID int64, content string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID, conversationID int64) ([]domain.Message, error)
}

type messagingService struct {
	conversations repository.ConversationRepository
	users         repository.UserRepository
}

func NewMessagingService(conversations repository.ConversationRepository, users repository.UserRepository) MessagingService {
	return &messagingService{conversations: conversations, users: users}
}

func (s *messagingService) StartConversation(ctx context.Context, initiatorID, recipientID int64) (*domain.Conversation, error) {
	if recipientID == initiatorID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	conv := &domain.Conversation{
		Participant1ID: initiatorID,
		Participant2ID: recipientID,
	}
	if _, err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *messagingService) ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

// AcceptConversation marks the conversation accepted; only the
// recipient (participant 2) may accept.
func (s *messagingService) AcceptConversation(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.Participant2ID != userID {
		return ErrNotParticipant
	}
	return s.conversations.Accept(ctx, conversationID)
}

func (s *messagingService) SendMessage(ctx context.Context, senderID, conversationID int64, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Participant1ID != senderID && conv.Participant2ID != senderID {
		return nil, ErrNotParticipant
	}
	if !conv.Accepted {
		return nil, ErrConversationPending
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if _, err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messagingService) ListMessages(ctx context.Context, userID, conversationID int64) ([]domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Participant1ID != userID && conv.Participant2ID != userID {
		return nil, ErrNotParticipant
	}
	return s.conversations.ListMessages(ctx, conversationID)
}
