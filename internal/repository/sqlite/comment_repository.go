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

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	owner_id INTEGER NOT NULL,
	post_id INTEGER NOT NULL,
	parent_id INTEGER,
	FOREIGN KEY(owner_id) REFERENCES users(id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(parent_id) REFERENCES comments(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	var parent any
	if comment.ParentID != 0 {
		parent = comment.ParentID
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO comments (content, created_at, owner_id, post_id, parent_id)
VALUES (?, ?, ?, ?, ?)`,
		comment.Content,
		comment.CreatedAt,
		comment.OwnerID,
		comment.PostID,
		parent,
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, content, created_at, owner_id, post_id, parent_id
FROM comments
WHERE id = ?`,
		id,
	)
	return scanComment(row)
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, content, created_at, owner_id, post_id, parent_id
FROM comments
WHERE post_id = ?
ORDER BY id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var (
			comment domain.Comment
			parent  sql.NullInt64
		)
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.CreatedAt, &comment.OwnerID, &comment.PostID, &parent); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comment.ParentID = parent.Int64
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func scanComment(row interface {
	Scan(dest ...any) error
}) (*domain.Comment, error) {
	var (
		comment domain.Comment
		parent  sql.NullInt64
	)
	if err := row.Scan(&comment.ID, &comment.Content, &comment.CreatedAt, &comment.OwnerID, &comment.PostID, &parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	comment.ParentID = parent.Int64
	return &comment, nil
}
