package repository

import (
	"context"
	"sync"
	"time"

	"yookye/backend/internal/user/domain"
)

// MemoryRepository is an in-memory user store for tests and for running the
// server without a database.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.User)}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u2 := *u
	return &u2, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email && u.DeletedAt == nil {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		u2 := *u
		r.byID[u.ID] = &u2
	}
	return nil
}

func (r *MemoryRepository) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Status = domain.UserStatusDeleted
		t := at
		u.DeletedAt = &t
		u.UpdatedAt = at
	}
	return nil
}
