package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
)

const createVotesTable = `
CREATE TABLE IF NOT EXISTS votes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	post_id INTEGER,
	comment_id INTEGER,
	value INTEGER NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(comment_id) REFERENCES comments(id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_user_post ON votes(user_id, post_id) WHERE post_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_user_comment ON votes(user_id, comment_id) WHERE comment_id IS NOT NULL;
`

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) repository.VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVotesTable); err != nil {
		return fmt.Errorf("create votes table: %w", err)
	}
	return nil
}

// Cast records the vote, replacing the user's previous vote on the same
// target, and keeps the content owner's vote counters in step. Both
// writes happen in one transaction.
func (r *VoteRepository) Cast(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	ownerID, err := targetOwner(ctx, tx, vote)
	if err != nil {
		return err
	}

	var (
		existingID    int64
		existingValue int
	)
	targetCol, targetID := "post_id", vote.PostID
	if vote.CommentID != 0 {
		targetCol, targetID = "comment_id", vote.CommentID
	}

	query := fmt.Sprintf("SELECT id, value FROM votes WHERE user_id = ? AND %s = ?", targetCol)
	err = tx.QueryRowContext(ctx, query, vote.UserID, targetID).Scan(&existingID, &existingValue)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		insert := fmt.Sprintf("INSERT INTO votes (user_id, %s, value) VALUES (?, ?, ?)", targetCol)
		res, err := tx.ExecContext(ctx, insert, vote.UserID, targetID, vote.Value)
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
		vote.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get vote id: %w", err)
		}
		if err := adjustCounter(ctx, tx, ownerID, vote.Value, 1); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("find vote: %w", err)
	case existingValue == vote.Value:
		vote.ID = existingID
		return tx.Commit()
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE votes SET value = ? WHERE id = ?`, vote.Value, existingID); err != nil {
			return fmt.Errorf("update vote: %w", err)
		}
		vote.ID = existingID
		if err := adjustCounter(ctx, tx, ownerID, existingValue, -1); err != nil {
			return err
		}
		if err := adjustCounter(ctx, tx, ownerID, vote.Value, 1); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func targetOwner(ctx context.Context, tx *sql.Tx, vote *domain.Vote) (int64, error) {
	var (
		ownerID int64
		err     error
	)
	if vote.CommentID != 0 {
		err = tx.QueryRowContext(ctx, `SELECT owner_id FROM comments WHERE id = ?`, vote.CommentID).Scan(&ownerID)
	} else {
		err = tx.QueryRowContext(ctx, `SELECT owner_id FROM posts WHERE id = ?`, vote.PostID).Scan(&ownerID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find vote target: %w", err)
	}
	return ownerID, nil
}

func adjustCounter(ctx context.Context, tx *sql.Tx, ownerID int64, value, delta int) error {
	column := "upvote_count"
	if value == domain.VoteDown {
		column = "downvote_count"
	}
	query := fmt.Sprintf("UPDATE users SET %s = %s + ? WHERE id = ?", column, column)
	if _, err := tx.ExecContext(ctx, query, delta, ownerID); err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}
	return nil
}
