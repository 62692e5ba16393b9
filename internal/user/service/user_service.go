package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	preferencedomain "yookye/backend/internal/preference/domain"
	traveldomain "yookye/backend/internal/travel/domain"
	userdomain "yookye/backend/internal/user/domain"
)

// Sentinel errors for the user service; handlers map them to HTTP statuses.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// UserRepo is the minimal user repository needed by the user service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// PreferenceRepo stores the per-user preferences document.
type PreferenceRepo interface {
	Get(ctx context.Context, userID string) (*preferencedomain.Record, error)
	Upsert(ctx context.Context, rec *preferencedomain.Record) error
}

// TravelRepo is the read side of the travel store used for projections.
type TravelRepo interface {
	ListByUser(ctx context.Context, userID string) ([]*traveldomain.TravelRequest, error)
}

// RecentTravel is one row of the dashboard's recent-requests panel.
type RecentTravel struct {
	ID                 string    `json:"id"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	Passions           []string  `json:"passions"`
	DestinationSummary string    `json:"destination_summary"`
}

// Dashboard is the aggregate view backing the account home page.
type Dashboard struct {
	User struct {
		ID          string    `json:"id"`
		Email       string    `json:"email"`
		Name        string    `json:"name"`
		Username    string    `json:"username"`
		MemberSince time.Time `json:"member_since"`
	} `json:"user"`
	Statistics struct {
		TotalTravels     int `json:"total_travels"`
		CompletedTravels int `json:"completed_travels"`
		PendingTravels   int `json:"pending_travels"`
	} `json:"statistics"`
	RecentTravels []RecentTravel               `json:"recent_travels"`
	Preferences   preferencedomain.Preferences `json:"preferences"`
}

// Activity is one entry of the account activity feed.
type Activity struct {
	Type          string    `json:"type"`
	TravelID      string    `json:"travel_id"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	Passions      []string  `json:"passions"`
	TravelerCount int       `json:"traveler_count"`
}

// Export is the full account data bundle for a portability request.
type Export struct {
	UserProfile struct {
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user_profile"`
	Travels     []*traveldomain.TravelRequest `json:"travels"`
	Preferences *preferencedomain.Preferences `json:"preferences,omitempty"`
	ExportedAt  time.Time                     `json:"exported_at"`
}

// UserService serves the read-mostly account surfaces: preferences,
// dashboard, activity feed, and data export.
type UserService struct {
	userRepo       UserRepo
	preferenceRepo PreferenceRepo
	travelRepo     TravelRepo
	storeTimeout   time.Duration
	logger         *slog.Logger
}

func NewUserService(userRepo UserRepo, preferenceRepo PreferenceRepo, travelRepo TravelRepo, storeTimeout time.Duration, logger *slog.Logger) *UserService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		userRepo:       userRepo,
		preferenceRepo: preferenceRepo,
		travelRepo:     travelRepo,
		storeTimeout:   storeTimeout,
		logger:         logger,
	}
}

// Preferences returns the user's saved preferences, or a zero value when none
// have been saved yet.
func (s *UserService) Preferences(ctx context.Context, userID string) (*preferencedomain.Record, error) {
	var rec *preferencedomain.Record
	err := s.store(ctx, "preferences lookup", func(ctx context.Context) error {
		var err error
		rec, err = s.preferenceRepo.Get(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SavePreferences creates or overwrites the user's preferences document.
func (s *UserService) SavePreferences(ctx context.Context, userID string, prefs preferencedomain.Preferences) (*preferencedomain.Record, error) {
	now := time.Now().UTC()
	rec := &preferencedomain.Record{
		UserID:      userID,
		Preferences: prefs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store(ctx, "preferences upsert", func(ctx context.Context) error {
		return s.preferenceRepo.Upsert(ctx, rec)
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

// Dashboard assembles the account home view: profile, travel counts, the five
// most recent requests, and saved preferences.
func (s *UserService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	travels, err := s.listTravels(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	var d Dashboard
	d.User.ID = user.ID
	d.User.Email = user.Email
	d.User.Name = user.Name
	d.User.Username = user.Username
	d.User.MemberSince = user.CreatedAt

	d.Statistics.TotalTravels = len(travels)
	for _, t := range travels {
		if t.Status == traveldomain.StatusCompleted {
			d.Statistics.CompletedTravels++
		}
	}
	d.Statistics.PendingTravels = d.Statistics.TotalTravels - d.Statistics.CompletedTravels

	d.RecentTravels = make([]RecentTravel, 0, 5)
	for i, t := range travels {
		if i == 5 {
			break
		}
		d.RecentTravels = append(d.RecentTravels, RecentTravel{
			ID:                 t.ID,
			Status:             string(t.Status),
			CreatedAt:          t.CreatedAt,
			Passions:           firstN(t.Form.Passions, 3),
			DestinationSummary: destinationSummary(t),
		})
	}

	if prefs != nil {
		d.Preferences = prefs.Preferences
	}
	return &d, nil
}

// Activity returns the account activity feed, newest first.
func (s *UserService) Activity(ctx context.Context, userID string) ([]Activity, error) {
	travels, err := s.listTravels(ctx, userID)
	if err != nil {
		return nil, err
	}
	activities := make([]Activity, 0, len(travels))
	for _, t := range travels {
		activities = append(activities, Activity{
			Type:          "travel_request",
			TravelID:      t.ID,
			Status:        string(t.Status),
			Date:          t.CreatedAt,
			Description:   "Richiesta viaggio per " + strings.Join(firstN(t.Form.Passions, 2), ", "),
			Passions:      t.Form.Passions,
			TravelerCount: t.Form.Travelers.Adults + t.Form.Travelers.Children,
		})
	}
	return activities, nil
}

// ExportData bundles everything stored about the user.
func (s *UserService) ExportData(ctx context.Context, userID string) (*Export, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	travels, err := s.listTravels(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	var e Export
	e.UserProfile.Email = user.Email
	e.UserProfile.Name = user.Name
	e.UserProfile.Username = user.Username
	e.UserProfile.CreatedAt = user.CreatedAt
	e.Travels = travels
	if prefs != nil {
		e.Preferences = &prefs.Preferences
	}
	e.ExportedAt = time.Now().UTC()
	return &e, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*userdomain.User, error) {
	var user *userdomain.User
	if err := s.store(ctx, "user lookup", func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) listTravels(ctx context.Context, userID string) ([]*traveldomain.TravelRequest, error) {
	var travels []*traveldomain.TravelRequest
	err := s.store(ctx, "travel list", func(ctx context.Context) error {
		var err error
		travels, err = s.travelRepo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return travels, nil
}

func (s *UserService) store(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.logger.Error("store call failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return nil
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func destinationSummary(t *traveldomain.TravelRequest) string {
	if t.Form.PlacesToVisit != "" {
		return t.Form.PlacesToVisit
	}
	return "Italia"
}
