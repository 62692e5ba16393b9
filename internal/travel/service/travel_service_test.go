package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"yookye/backend/internal/travel/domain"
	travelrepo "yookye/backend/internal/travel/repository"
	"yookye/backend/internal/travel/searchapi"
)

type stubAuthenticator struct {
	err   error
	calls int
}

func (s *stubAuthenticator) Authenticate(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "tok", nil
}

func validForm() domain.Form {
	return domain.Form{
		Passions:     []string{"food_and_wine", "culture_and_history"},
		Travelers:    domain.Travelers{Adults: 2, Rooms: 1},
		ContactEmail: "a@x.com",
		Budget:       "1000-2000",
	}
}

func newTestTravelService() (*TravelService, *stubAuthenticator) {
	auth := &stubAuthenticator{}
	svc := NewTravelService(travelrepo.NewMemoryRepository(), auth, time.Second, nil)
	return svc, auth
}

func TestTravelService_Submit(t *testing.T) {
	svc, auth := newTestTravelService()
	ctx := context.Background()

	travel, err := svc.Submit(ctx, "u1", validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if travel.Status != domain.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", travel.Status)
	}
	if auth.calls != 1 {
		t.Fatalf("authenticate calls = %d, want 1", auth.calls)
	}
}

func TestTravelService_SubmitAnonymous(t *testing.T) {
	svc, _ := newTestTravelService()

	travel, err := svc.Submit(context.Background(), "", validForm())
	if err != nil {
		t.Fatalf("Submit anonymous: %v", err)
	}
	if travel.UserID != "" {
		t.Fatalf("user id = %q, want empty", travel.UserID)
	}
}

func TestTravelService_SubmitGatedOnSearchAPI(t *testing.T) {
	auth := &stubAuthenticator{err: searchapi.ErrUnavailable}
	svc := NewTravelService(travelrepo.NewMemoryRepository(), auth, time.Second, nil)

	if _, err := svc.Submit(context.Background(), "u1", validForm()); !errors.Is(err, searchapi.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	// Nothing was stored.
	travels, err := svc.MyTravels(context.Background(), "u1")
	if err != nil {
		t.Fatalf("MyTravels: %v", err)
	}
	if len(travels) != 0 {
		t.Fatalf("travels = %d, want 0", len(travels))
	}
}

func TestTravelService_SubmitInvalidForm(t *testing.T) {
	svc, _ := newTestTravelService()

	form := validForm()
	form.Passions = nil
	if _, err := svc.Submit(context.Background(), "u1", form); err == nil {
		t.Fatal("expected validation error for missing passions")
	}

	form = validForm()
	form.Travelers.Adults = 0
	if _, err := svc.Submit(context.Background(), "u1", form); err == nil {
		t.Fatal("expected validation error for zero adults")
	}
}

func TestTravelService_DetailOwnership(t *testing.T) {
	svc, _ := newTestTravelService()
	ctx := context.Background()

	travel, err := svc.Submit(ctx, "u1", validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := svc.Detail(ctx, travel.ID, "u1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if got.ID != travel.ID {
		t.Fatalf("id = %s, want %s", got.ID, travel.ID)
	}
	if _, err := svc.Detail(ctx, travel.ID, "u2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Detail(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v, want ErrNotFound", err)
	}
}

func TestTravelService_UpdateStatus(t *testing.T) {
	svc, _ := newTestTravelService()
	ctx := context.Background()

	travel, err := svc.Submit(ctx, "u1", validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	updated, err := svc.UpdateStatus(ctx, travel.ID, domain.StatusProcessing, "expert1")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusProcessing || updated.UpdatedBy != "expert1" {
		t.Fatalf("updated = %+v", updated)
	}
	if _, err := svc.UpdateStatus(ctx, travel.ID, domain.Status("bogus"), "expert1"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bogus status err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", domain.StatusBooked, "expert1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v, want ErrNotFound", err)
	}
}

func TestTravelService_Statistics(t *testing.T) {
	svc, _ := newTestTravelService()
	ctx := context.Background()

	first, _ := svc.Submit(ctx, "u1", validForm())
	form := validForm()
	form.Passions = []string{"food_and_wine", "sea_and_beaches"}
	_, _ = svc.Submit(ctx, "u1", form)
	_, _ = svc.UpdateStatus(ctx, first.ID, domain.StatusBooked, "expert1")

	stats, err := svc.Statistics(ctx, "u1")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalTravels != 2 {
		t.Fatalf("total = %d, want 2", stats.TotalTravels)
	}
	if stats.StatusBreakdown["booked"] != 1 || stats.StatusBreakdown["submitted"] != 1 {
		t.Fatalf("breakdown = %v", stats.StatusBreakdown)
	}
	if stats.PopularPassions["food_and_wine"] != 2 {
		t.Fatalf("passions = %v", stats.PopularPassions)
	}
}

func TestTravelService_Destinations(t *testing.T) {
	svc, _ := newTestTravelService()

	destinations := svc.Destinations()
	if len(destinations) != 19 {
		t.Fatalf("destinations = %d, want 19", len(destinations))
	}
	seen := make(map[string]bool)
	for _, d := range destinations {
		if d.ID == "" || d.Name == "" || d.Region == "" {
			t.Fatalf("incomplete destination: %+v", d)
		}
		if seen[d.ID] {
			t.Fatalf("duplicate destination id %s", d.ID)
		}
		seen[d.ID] = true
	}
}
