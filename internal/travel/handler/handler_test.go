package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authservice "yookye/backend/internal/auth/service"
	revocationrepo "yookye/backend/internal/revocation/repository"
	"yookye/backend/internal/security"
	"yookye/backend/internal/server/middleware"
	sessionrepo "yookye/backend/internal/session/repository"
	travelrepo "yookye/backend/internal/travel/repository"
	"yookye/backend/internal/travel/searchapi"
	travelservice "yookye/backend/internal/travel/service"
	userrepo "yookye/backend/internal/user/repository"
)

type stubAuthenticator struct{ err error }

func (s *stubAuthenticator) Authenticate(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tok", nil
}

type testEnv struct {
	srv  *httptest.Server
	auth *authservice.AuthService
}

func newTestServer(t *testing.T, searchErr error) *testEnv {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	auth := authservice.NewAuthService(
		userrepo.NewMemoryRepository(),
		sessionrepo.NewMemoryRepository(),
		revocationrepo.NewMemoryRepository(),
		security.NewHasher(4),
		tokens,
		time.Second,
		nil,
	)
	svc := travelservice.NewTravelService(
		travelrepo.NewMemoryRepository(),
		&stubAuthenticator{err: searchErr},
		time.Second,
		nil,
	)
	h := NewHandler(svc)

	mux := http.NewServeMux()
	mux.Handle("POST /api/submit-form", middleware.OptionalAuth(auth, http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/my-travels", middleware.Auth(auth, http.HandlerFunc(h.MyTravels)))
	mux.Handle("GET /api/travel/{id}", middleware.Auth(auth, http.HandlerFunc(h.Detail)))
	mux.Handle("PUT /api/travel/{id}/status", middleware.Auth(auth, http.HandlerFunc(h.UpdateStatus)))
	mux.Handle("GET /api/statistics", middleware.Auth(auth, http.HandlerFunc(h.Statistics)))
	mux.HandleFunc("GET /api/destinations", h.Destinations)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, auth: auth}
}

func (e *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()
	res, err := e.auth.Register(context.Background(), email, "secret-password-1", "A", "a1handle", authservice.OriginMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return res.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func submitBody() map[string]any {
	return map[string]any{
		"passions": []string{"food_and_wine"},
		"adults":   2,
		"rooms":    1,
		"email":    "a@x.com",
		"budget":   "1000-2000",
	}
}

func TestHandler_SubmitAuthenticated(t *testing.T) {
	env := newTestServer(t, nil)
	token := env.registerUser(t, "a@x.com")

	resp, body := env.do(t, http.MethodPost, "/api/submit-form", token, submitBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %v", resp.StatusCode, body)
	}
	travelID := body["travel_id"].(string)

	resp, list := env.do(t, http.MethodGet, "/api/my-travels", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my-travels status = %d", resp.StatusCode)
	}
	if int(list["total"].(float64)) != 1 {
		t.Fatalf("total = %v, want 1", list["total"])
	}

	resp, detail := env.do(t, http.MethodGet, "/api/travel/"+travelID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail status = %d: %v", resp.StatusCode, detail)
	}
}

func TestHandler_SubmitAnonymous(t *testing.T) {
	env := newTestServer(t, nil)

	resp, body := env.do(t, http.MethodPost, "/api/submit-form", "", submitBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %v", resp.StatusCode, body)
	}
	// Anonymous submissions do not show up in any user's list.
	token := env.registerUser(t, "b@x.com")
	_, list := env.do(t, http.MethodGet, "/api/my-travels", token, nil)
	if int(list["total"].(float64)) != 0 {
		t.Fatalf("total = %v, want 0", list["total"])
	}
}

func TestHandler_SubmitSearchAPIDown(t *testing.T) {
	env := newTestServer(t, searchapi.ErrUnavailable)

	resp, _ := env.do(t, http.MethodPost, "/api/submit-form", "", submitBody())
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHandler_SubmitValidation(t *testing.T) {
	env := newTestServer(t, nil)

	body := submitBody()
	delete(body, "passions")
	resp, _ := env.do(t, http.MethodPost, "/api/submit-form", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing passions status = %d, want 400", resp.StatusCode)
	}

	body = submitBody()
	body["adults"] = 0
	resp, _ = env.do(t, http.MethodPost, "/api/submit-form", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero adults status = %d, want 400", resp.StatusCode)
	}
}

func TestHandler_DetailOwnership(t *testing.T) {
	env := newTestServer(t, nil)
	owner := env.registerUser(t, "a@x.com")
	other := env.registerUser(t, "b@x.com")

	_, body := env.do(t, http.MethodPost, "/api/submit-form", owner, submitBody())
	travelID := body["travel_id"].(string)

	resp, _ := env.do(t, http.MethodGet, "/api/travel/"+travelID, other, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	resp, _ = env.do(t, http.MethodGet, "/api/travel/does-not-exist", owner, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	env := newTestServer(t, nil)
	token := env.registerUser(t, "a@x.com")

	_, body := env.do(t, http.MethodPost, "/api/submit-form", token, submitBody())
	travelID := body["travel_id"].(string)

	resp, updated := env.do(t, http.MethodPut, "/api/travel/"+travelID+"/status", token,
		map[string]string{"status": "processing"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, updated)
	}
	if updated["status"] != "processing" {
		t.Fatalf("status = %v", updated["status"])
	}

	resp, _ = env.do(t, http.MethodPut, "/api/travel/"+travelID+"/status", token,
		map[string]string{"status": "bogus"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", resp.StatusCode)
	}
}

func TestHandler_Statistics(t *testing.T) {
	env := newTestServer(t, nil)
	token := env.registerUser(t, "a@x.com")

	env.do(t, http.MethodPost, "/api/submit-form", token, submitBody())
	env.do(t, http.MethodPost, "/api/submit-form", token, submitBody())

	resp, body := env.do(t, http.MethodGet, "/api/statistics", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	stats := body["statistics"].(map[string]any)
	if int(stats["total_travels"].(float64)) != 2 {
		t.Fatalf("total = %v, want 2", stats["total_travels"])
	}
}

func TestHandler_DestinationsPublic(t *testing.T) {
	env := newTestServer(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/destinations", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := len(body["destinations"].([]any)); got != 19 {
		t.Fatalf("destinations = %d, want 19", got)
	}
}
