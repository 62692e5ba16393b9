package repository

import (
	"context"

	"yookye/backend/internal/revocation/domain"
)

// Repository is the token blacklist. Add is idempotent; a jti already present
// is not an error. Exists must observe a completed Add for the same jti.
type Repository interface {
	Add(ctx context.Context, e *domain.Entry) error
	Exists(ctx context.Context, jti string) (bool, error)
}
