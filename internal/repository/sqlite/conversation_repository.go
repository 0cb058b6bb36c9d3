package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
)

const createConversationsTables = `
CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	participant1_id INTEGER NOT NULL,
	participant2_id INTEGER NOT NULL,
	accepted INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(participant1_id) REFERENCES users(id),
	FOREIGN KEY(participant2_id) REFERENCES users(id)
);
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL,
	sender_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE,
	FOREIGN KEY(sender_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);
`

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) repository.ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createConversationsTables); err != nil {
		return fmt.Errorf("create conversations tables: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (int64, error) {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO conversations (participant1_id, participant2_id, accepted, created_at)
VALUES (?, ?, ?, ?)`,
		conv.Participant1ID,
		conv.Participant2ID,
		conv.Accepted,
		conv.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert conversation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("conversation last insert id: %w", err)
	}
	conv.ID = id
	return id, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, participant1_id, participant2_id, accepted, created_at
FROM conversations
WHERE id = ?`,
		id,
	)
	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.Participant1ID, &conv.Participant2ID, &conv.Accepted, &conv.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, participant1_id, participant2_id, accepted, created_at
FROM conversations
WHERE participant1_id = ? OR participant2_id = ?
ORDER BY created_at DESC, id DESC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.Participant1ID, &conv.Participant2ID, &conv.Accepted, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	return convs, rows.Err()
}

func (r *ConversationRepository) Accept(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET accepted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("accept conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("accept conversation rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ConversationRepository) CreateMessage(ctx context.Context, msg *domain.Message) (int64, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO messages (conversation_id, sender_id, content, created_at)
VALUES (?, ?, ?, ?)`,
		msg.ConversationID,
		msg.SenderID,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, conversation_id, sender_id, content, created_at
FROM messages
WHERE conversation_id = ?
ORDER BY id ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	return msgs, rows.Err()
}
