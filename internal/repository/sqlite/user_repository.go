package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	bio TEXT,
	avatar_url TEXT,
	created_at DATETIME NOT NULL,
	upvote_count INTEGER NOT NULL DEFAULT 0,
	downvote_count INTEGER NOT NULL DEFAULT 0
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, hashed_password, bio, avatar_url, created_at)
VALUES (?, ?, ?, ?, ?)`,
		user.Username,
		user.HashedPassword,
		nullIfEmpty(user.Bio),
		nullIfEmpty(user.AvatarURL),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, bio, avatar_url, created_at, upvote_count, downvote_count
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, bio, avatar_url, created_at, upvote_count, downvote_count
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// Update applies only the fields present in the partial update. With no
// fields set it degenerates to a read.
func (r *UserRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	var (
		sets []string
		args []any
	)
	if update.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, nullIfEmpty(*update.Bio))
	}
	if update.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, nullIfEmpty(*update.AvatarURL))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(sets, ", "))
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update user rows affected: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("update user: %w", repository.ErrNotFound)
		}
	}

	return r.GetByID(ctx, id)
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user   domain.User
		bio    sql.NullString
		avatar sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&bio,
		&avatar,
		&user.CreatedAt,
		&user.UpvoteCount,
		&user.DownvoteCount,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Bio = bio.String
	user.AvatarURL = avatar.String
	return &user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation matches the driver's constraint error text; the
// modernc driver does not export a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
