package repository

import (
	"context"

	"yookye/backend/internal/preference/domain"
)

// Repository stores one preferences document per user. Get returns (nil, nil)
// when the user has none yet.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Record, error)
	// Upsert creates the record or overwrites an existing one, keeping
	// CreatedAt from the first write.
	Upsert(ctx context.Context, rec *domain.Record) error
}
