package repository

import (
	"context"
	"sync"

	"yookye/backend/internal/revocation/domain"
)

// MemoryRepository is an in-memory blacklist for tests and for running the
// server without a database.
type MemoryRepository struct {
	mu    sync.Mutex
	byJti map[string]domain.Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byJti: make(map[string]domain.Entry)}
}

func (r *MemoryRepository) Add(ctx context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byJti[e.Jti]; !ok {
		r.byJti[e.Jti] = *e
	}
	return nil
}

func (r *MemoryRepository) Exists(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byJti[jti]
	return ok, nil
}
