package repository

import (
	"context"
	"time"

	"yookye/backend/internal/travel/domain"
)

// Repository defines persistence for travel requests. Lookups return
// (nil, nil) for missing rows.
type Repository interface {
	Create(ctx context.Context, t *domain.TravelRequest) error
	GetByID(ctx context.Context, id string) (*domain.TravelRequest, error)
	// ListByUser returns the user's requests, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.TravelRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedBy string, at time.Time) error
}
