package service

import (
	"context"
	"errors"
	"testing"
	"time"

	preferencedomain "yookye/backend/internal/preference/domain"
	preferencerepo "yookye/backend/internal/preference/repository"
	traveldomain "yookye/backend/internal/travel/domain"
	travelrepo "yookye/backend/internal/travel/repository"
	userdomain "yookye/backend/internal/user/domain"
	userrepo "yookye/backend/internal/user/repository"
)

func newTestUserService(t *testing.T) (*UserService, *userrepo.MemoryRepository, *travelrepo.MemoryRepository) {
	t.Helper()
	users := userrepo.NewMemoryRepository()
	travels := travelrepo.NewMemoryRepository()
	svc := NewUserService(users, preferencerepo.NewMemoryRepository(), travels, time.Second, nil)
	return svc, users, travels
}

func seedUser(t *testing.T, users *userrepo.MemoryRepository, id string) {
	t.Helper()
	now := time.Now().UTC()
	err := users.Create(context.Background(), &userdomain.User{
		ID:        id,
		Email:     id + "@x.com",
		Name:      "A",
		Username:  "a1",
		Status:    userdomain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedTravel(t *testing.T, travels *travelrepo.MemoryRepository, userID string, status traveldomain.Status, createdAt time.Time, passions ...string) string {
	t.Helper()
	tr := &traveldomain.TravelRequest{
		ID:     "t-" + createdAt.Format("150405.000000000"),
		UserID: userID,
		Form: traveldomain.Form{
			Passions:     passions,
			Travelers:    traveldomain.Travelers{Adults: 2, Children: 1, Rooms: 1},
			ContactEmail: "a@x.com",
		},
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := travels.Create(context.Background(), tr); err != nil {
		t.Fatalf("seed travel: %v", err)
	}
	return tr.ID
}

func TestUserService_PreferencesRoundTrip(t *testing.T) {
	svc, users, _ := newTestUserService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	rec, err := svc.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if rec != nil {
		t.Fatal("expected no preferences initially")
	}

	saved, err := svc.SavePreferences(ctx, "u1", preferencedomain.Preferences{
		TravelStyle: "slow",
		BudgetRange: "1000-2000",
	})
	if err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if saved.UserID != "u1" {
		t.Fatalf("user id = %q", saved.UserID)
	}

	rec, err = svc.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if rec == nil || rec.Preferences.TravelStyle != "slow" {
		t.Fatalf("rec = %+v", rec)
	}
}

func TestUserService_Dashboard(t *testing.T) {
	svc, users, travels := newTestUserService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		status := traveldomain.StatusSubmitted
		if i == 0 {
			status = traveldomain.StatusCompleted
		}
		seedTravel(t, travels, "u1", status, base.Add(time.Duration(i)*time.Minute),
			"food_and_wine", "culture_and_history", "sea_and_beaches", "wellness")
	}

	d, err := svc.Dashboard(ctx, "u1")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.User.ID != "u1" {
		t.Fatalf("user = %+v", d.User)
	}
	if d.Statistics.TotalTravels != 7 || d.Statistics.CompletedTravels != 1 || d.Statistics.PendingTravels != 6 {
		t.Fatalf("stats = %+v", d.Statistics)
	}
	if len(d.RecentTravels) != 5 {
		t.Fatalf("recent = %d, want 5", len(d.RecentTravels))
	}
	// Passions are truncated to three and the summary falls back to Italia.
	if len(d.RecentTravels[0].Passions) != 3 {
		t.Fatalf("passions = %v", d.RecentTravels[0].Passions)
	}
	if d.RecentTravels[0].DestinationSummary != "Italia" {
		t.Fatalf("summary = %q", d.RecentTravels[0].DestinationSummary)
	}
}

func TestUserService_DashboardUnknownUser(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	if _, err := svc.Dashboard(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUserService_Activity(t *testing.T) {
	svc, users, travels := newTestUserService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	older := time.Now().UTC().Add(-2 * time.Hour)
	newer := time.Now().UTC().Add(-time.Hour)
	seedTravel(t, travels, "u1", traveldomain.StatusSubmitted, older, "food_and_wine")
	newestID := seedTravel(t, travels, "u1", traveldomain.StatusBooked, newer, "wellness", "culture_and_history", "sport")

	activities, err := svc.Activity(ctx, "u1")
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("activities = %d, want 2", len(activities))
	}
	if activities[0].TravelID != newestID {
		t.Fatal("activities must be newest first")
	}
	if activities[0].Description != "Richiesta viaggio per wellness, culture_and_history" {
		t.Fatalf("description = %q", activities[0].Description)
	}
	if activities[0].TravelerCount != 3 {
		t.Fatalf("traveler count = %d, want 3", activities[0].TravelerCount)
	}
}

func TestUserService_ExportData(t *testing.T) {
	svc, users, travels := newTestUserService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	seedTravel(t, travels, "u1", traveldomain.StatusSubmitted, time.Now().UTC(), "food_and_wine")
	if _, err := svc.SavePreferences(ctx, "u1", preferencedomain.Preferences{TravelStyle: "slow"}); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	export, err := svc.ExportData(ctx, "u1")
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if export.UserProfile.Email != "u1@x.com" {
		t.Fatalf("profile = %+v", export.UserProfile)
	}
	if len(export.Travels) != 1 {
		t.Fatalf("travels = %d, want 1", len(export.Travels))
	}
	if export.Preferences == nil || export.Preferences.TravelStyle != "slow" {
		t.Fatalf("preferences = %+v", export.Preferences)
	}
}
