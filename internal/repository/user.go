package repository

import (
	"context"

	"anonboard/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Username uniqueness is enforced by the store's own constraint;
// Create surfaces a violation as ErrDuplicate so a register-time check
// racing a concurrent insert still fails cleanly.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error)
}
