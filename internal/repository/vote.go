package repository

import (
	"context"

	"anonboard/internal/domain"
)

// VoteRepository defines persistence operations for votes. Cast inserts
// a new vote or replaces the caller's existing vote on the same target,
// adjusting the target owner's up/downvote counters in the same
// transaction.
type VoteRepository interface {
	Init(ctx context.Context) error
	Cast(ctx context.Context, vote *domain.Vote) error
}
