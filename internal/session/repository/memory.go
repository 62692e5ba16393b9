package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"yookye/backend/internal/session/domain"
)

// MemoryRepository is an in-memory session store for tests and for running the
// server without a database.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.Session)}
}

func (r *MemoryRepository) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *s
	r.byID[s.ID] = &s2
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	s2 := *s
	return &s2, nil
}

func (r *MemoryRepository) GetActiveByAccessJti(ctx context.Context, jti string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.AccessJti == jti && s.RevokedAt == nil {
			s2 := *s
			return &s2, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetActiveByRefreshJti(ctx context.Context, jti string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.RefreshJti == jti && s.RevokedAt == nil {
			s2 := *s
			return &s2, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ListActiveByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*domain.Session
	for _, s := range r.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			s2 := *s
			sessions = append(sessions, &s2)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (r *MemoryRepository) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		t := at
		s.LastActivityAt = &t
	}
	return nil
}

func (r *MemoryRepository) UpdateAccessJti(ctx context.Context, id, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		s.AccessJti = jti
	}
	return nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, id, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok && s.RevokedAt == nil {
		t := at
		s.RevokedAt = &t
		s.RevokeReason = reason
	}
	return nil
}

func (r *MemoryRepository) RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			t := at
			s.RevokedAt = &t
			s.RevokeReason = reason
			n++
		}
	}
	return n, nil
}
