package repository

import (
	"context"
	"time"

	"yookye/backend/internal/session/domain"
)

// Repository defines persistence for device sessions. Lookups return
// (nil, nil) for missing rows.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// GetActiveByAccessJti returns the unrevoked session currently bound to
	// the access jti, or nil.
	GetActiveByAccessJti(ctx context.Context, jti string) (*domain.Session, error)
	// GetActiveByRefreshJti returns the unrevoked session opened with the
	// refresh jti, or nil.
	GetActiveByRefreshJti(ctx context.Context, jti string) (*domain.Session, error)
	// ListActiveByUser returns the user's unrevoked sessions, newest first.
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	// Touch records request activity on the session.
	Touch(ctx context.Context, id string, at time.Time) error
	// UpdateAccessJti rebinds the session to a freshly minted access jti.
	UpdateAccessJti(ctx context.Context, id, jti string) error
	Revoke(ctx context.Context, id, reason string, at time.Time) error
	// RevokeAllByUser revokes every active session of the user and returns how
	// many were revoked.
	RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error)
}
