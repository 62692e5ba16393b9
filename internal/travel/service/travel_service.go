package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"yookye/backend/internal/travel/domain"
)

// Sentinel errors for the travel service; handlers map them to HTTP statuses.
var (
	ErrNotFound           = errors.New("travel request not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("invalid travel status")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TravelRepo is the minimal travel repository needed by the service.
type TravelRepo interface {
	Create(ctx context.Context, t *domain.TravelRequest) error
	GetByID(ctx context.Context, id string) (*domain.TravelRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TravelRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedBy string, at time.Time) error
}

// Authenticator is the trip-search API handshake that gates submissions.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// Statistics is the per-user dashboard aggregate.
type Statistics struct {
	TotalTravels    int            `json:"total_travels"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	PopularPassions map[string]int `json:"popular_passions"`
}

// TravelService manages travel request submission and lifecycle.
type TravelService struct {
	repo         TravelRepo
	searchAPI    Authenticator
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewTravelService(repo TravelRepo, searchAPI Authenticator, storeTimeout time.Duration, logger *slog.Logger) *TravelService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TravelService{repo: repo, searchAPI: searchAPI, storeTimeout: storeTimeout, logger: logger}
}

// Submit validates and stores a travel form. The trip-search API handshake
// runs first; a request is never accepted while the downstream service is
// unreachable. userID may be empty for anonymous submissions.
func (s *TravelService) Submit(ctx context.Context, userID string, form domain.Form) (*domain.TravelRequest, error) {
	if _, err := s.searchAPI.Authenticate(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	travel := &domain.TravelRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		Form:      form,
		Status:    domain.StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := travel.Validate(); err != nil {
		return nil, err
	}
	if err := s.store(ctx, "travel create", func(ctx context.Context) error {
		return s.repo.Create(ctx, travel)
	}); err != nil {
		return nil, err
	}
	return travel, nil
}

// MyTravels returns the user's requests, newest first.
func (s *TravelService) MyTravels(ctx context.Context, userID string) ([]*domain.TravelRequest, error) {
	var travels []*domain.TravelRequest
	err := s.store(ctx, "travel list", func(ctx context.Context) error {
		var err error
		travels, err = s.repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return travels, nil
}

// Detail returns one request, enforcing ownership.
func (s *TravelService) Detail(ctx context.Context, id, requestingUserID string) (*domain.TravelRequest, error) {
	travel, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if travel.UserID != requestingUserID {
		return nil, ErrForbidden
	}
	return travel, nil
}

// UpdateStatus advances a request's lifecycle state, recording who moved it.
func (s *TravelService) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedBy string) (*domain.TravelRequest, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	travel, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.store(ctx, "travel status update", func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, id, status, updatedBy, now)
	}); err != nil {
		return nil, err
	}
	travel.Status = status
	travel.UpdatedBy = updatedBy
	travel.UpdatedAt = now
	return travel, nil
}

// Statistics aggregates the user's requests: total count, per-status
// breakdown, and the five most requested passions.
func (s *TravelService) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	travels, err := s.MyTravels(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalTravels:    len(travels),
		StatusBreakdown: make(map[string]int),
		PopularPassions: make(map[string]int),
	}
	passionCounts := make(map[string]int)
	for _, t := range travels {
		stats.StatusBreakdown[string(t.Status)]++
		for _, p := range t.Form.Passions {
			passionCounts[p]++
		}
	}

	type kv struct {
		passion string
		count   int
	}
	ranked := make([]kv, 0, len(passionCounts))
	for p, c := range passionCounts {
		ranked = append(ranked, kv{p, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].passion < ranked[j].passion
	})
	for i, r := range ranked {
		if i == 5 {
			break
		}
		stats.PopularPassions[r.passion] = r.count
	}
	return stats, nil
}

// Destinations returns the public catalogue.
func (s *TravelService) Destinations() []domain.Destination {
	return domain.Destinations()
}

func (s *TravelService) get(ctx context.Context, id string) (*domain.TravelRequest, error) {
	var travel *domain.TravelRequest
	if err := s.store(ctx, "travel lookup", func(ctx context.Context) error {
		var err error
		travel, err = s.repo.GetByID(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	if travel == nil {
		return nil, ErrNotFound
	}
	return travel, nil
}

func (s *TravelService) store(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.logger.Error("store call failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return nil
}
