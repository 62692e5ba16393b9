package repository

import (
	"context"
	"time"

	"yookye/backend/internal/user/domain"
)

// Repository defines persistence for users. Lookups return (nil, nil) for
// missing rows; errors are reserved for store failures.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail looks up a non-deleted user by lower-cased email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// MarkDeleted soft-deletes the user: sets status and deleted_at, the row stays.
	MarkDeleted(ctx context.Context, id string, at time.Time) error
}
