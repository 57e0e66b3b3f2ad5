package repository

import (
	"context"

	"bookbot/internal/domain"
)

// UserRepository defines reader state operations
type UserRepository interface {
	// Get returns nil without error when the user is unknown
	Get(ctx context.Context, userID int64) (*domain.User, error)
	// Upsert inserts the user or overwrites the existing row
	Upsert(ctx context.Context, user *domain.User) error
	// Update applies the non-nil fields of upd to an existing row
	Update(ctx context.Context, userID int64, upd domain.UserUpdate) error
	Count(ctx context.Context) (int, error)
}
