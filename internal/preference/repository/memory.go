package repository

import (
	"context"
	"sync"

	"yookye/backend/internal/preference/domain"
)

// MemoryRepository is an in-memory preferences store for tests and for
// running the server without a database.
type MemoryRepository struct {
	mu     sync.Mutex
	byUser map[string]*domain.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string]*domain.Record)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	rec2 := *rec
	return &rec2, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec2 := *rec
	if existing, ok := r.byUser[rec.UserID]; ok {
		rec2.CreatedAt = existing.CreatedAt
	}
	r.byUser[rec.UserID] = &rec2
	return nil
}
