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

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	image_url TEXT,
	created_at DATETIME NOT NULL,
	owner_id INTEGER NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (content, image_url, created_at, owner_id)
VALUES (?, ?, ?, ?)`,
		post.Content,
		nullIfEmpty(post.ImageURL),
		post.CreatedAt,
		post.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, content, image_url, created_at, owner_id
FROM posts
WHERE id = ?`,
		id,
	)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, content, image_url, created_at, owner_id
FROM posts
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var (
			post  domain.Post
			image sql.NullString
		)
		if err := rows.Scan(&post.ID, &post.Content, &image, &post.CreatedAt, &post.OwnerID); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		post.ImageURL = image.String
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var (
		post  domain.Post
		image sql.NullString
	)
	if err := row.Scan(&post.ID, &post.Content, &image, &post.CreatedAt, &post.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	post.ImageURL = image.String
	return &post, nil
}
