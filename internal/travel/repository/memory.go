package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"yookye/backend/internal/travel/domain"
)

// MemoryRepository is an in-memory travel store for tests and for running the
// server without a database.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.TravelRequest
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.TravelRequest)}
}

func (r *MemoryRepository) Create(ctx context.Context, t *domain.TravelRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t2 := *t
	r.byID[t.ID] = &t2
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.TravelRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	t2 := *t
	return &t2, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TravelRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var travels []*domain.TravelRequest
	for _, t := range r.byID {
		if t.UserID == userID && userID != "" {
			t2 := *t
			travels = append(travels, &t2)
		}
	}
	sort.Slice(travels, func(i, j int) bool {
		return travels[i].CreatedAt.After(travels[j].CreatedAt)
	})
	return travels, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		t.Status = status
		t.UpdatedBy = updatedBy
		t.UpdatedAt = at
	}
	return nil
}
