package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authservice "yookye/backend/internal/auth/service"
	revocationrepo "yookye/backend/internal/revocation/repository"
	"yookye/backend/internal/security"
	sessionrepo "yookye/backend/internal/session/repository"
	"yookye/backend/internal/server/middleware"
	userrepo "yookye/backend/internal/user/repository"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	svc := authservice.NewAuthService(
		userrepo.NewMemoryRepository(),
		sessionrepo.NewMemoryRepository(),
		revocationrepo.NewMemoryRepository(),
		security.NewHasher(4),
		tokens,
		time.Second,
		nil,
	)
	h := NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Refresh)
	mux.Handle("POST /api/auth/logout", middleware.Auth(svc, http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/auth/sessions", middleware.Auth(svc, http.HandlerFunc(h.ListSessions)))
	mux.Handle("DELETE /api/auth/sessions/{id}", middleware.Auth(svc, http.HandlerFunc(h.RevokeSession)))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, srv, http.MethodPost, path, token, body)
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, email string) map[string]any {
	t.Helper()
	resp, body := postJSON(t, srv, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret-password-1",
		"name":     "A",
		"username": "a1handle",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d: %v", resp.StatusCode, body)
	}
	return body
}

func TestHandler_RegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	body := registerAndLogin(t, srv, "a@x.com")
	if body["access_token"] == "" || body["refresh_token"] == "" {
		t.Fatalf("missing tokens: %v", body)
	}
	if body["token_type"] != "bearer" {
		t.Fatalf("token_type = %v", body["token_type"])
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "a@x.com" {
		t.Fatalf("user = %v", user)
	}

	resp, login := postJSON(t, srv, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret-password-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d: %v", resp.StatusCode, login)
	}
	if login["access_token"] == body["access_token"] {
		t.Fatal("login must issue a fresh access token")
	}
}

func TestHandler_RegisterDuplicate(t *testing.T) {
	srv := newTestServer(t)

	registerAndLogin(t, srv, "a@x.com")
	resp, _ := postJSON(t, srv, "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret-password-1",
		"username": "a2handle",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestHandler_RegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv, "/api/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "secret-password-1",
		"username": "a1handle",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email status = %d, want 400", resp.StatusCode)
	}

	resp, _ = postJSON(t, srv, "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "short",
		"username": "a1handle",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password status = %d, want 400", resp.StatusCode)
	}
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	registerAndLogin(t, srv, "a@x.com")
	resp, _ := postJSON(t, srv, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password-99",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandler_RefreshAndLogout(t *testing.T) {
	srv := newTestServer(t)

	body := registerAndLogin(t, srv, "a@x.com")
	access := body["access_token"].(string)
	refresh := body["refresh_token"].(string)

	resp, refreshed := postJSON(t, srv, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d: %v", resp.StatusCode, refreshed)
	}
	newAccess := refreshed["access_token"].(string)
	if newAccess == access {
		t.Fatal("refresh must mint a new access token")
	}

	resp, _ = postJSON(t, srv, "/api/auth/logout", newAccess, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}

	// The token and the refresh token are both dead now.
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/auth/sessions", newAccess, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("sessions after logout status = %d, want 401", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestHandler_SessionsListAndRevoke(t *testing.T) {
	srv := newTestServer(t)

	registerAndLogin(t, srv, "a@x.com")
	login := func() map[string]any {
		resp, body := postJSON(t, srv, "/api/auth/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "secret-password-1",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login status = %d", resp.StatusCode)
		}
		return body
	}
	dev1 := login()
	dev2 := login()

	resp, body := doJSON(t, srv, http.MethodGet, "/api/auth/sessions", dev2["access_token"].(string), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sessions status = %d", resp.StatusCode)
	}
	sessions := body["sessions"].([]any)
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3 (register + 2 logins)", len(sessions))
	}

	target := dev1["session_id"].(string)
	resp, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/auth/sessions/%s", target), dev2["access_token"].(string), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("revoke status = %d, want 204", resp.StatusCode)
	}

	resp, body = doJSON(t, srv, http.MethodGet, "/api/auth/sessions", dev2["access_token"].(string), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sessions status = %d", resp.StatusCode)
	}
	if got := len(body["sessions"].([]any)); got != 2 {
		t.Fatalf("sessions after revoke = %d, want 2", got)
	}

	// The revoked device's access token no longer works.
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/auth/sessions", dev1["access_token"].(string), nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked device status = %d, want 401", resp.StatusCode)
	}
}

func TestHandler_RevokeSessionNotFound(t *testing.T) {
	srv := newTestServer(t)

	body := registerAndLogin(t, srv, "a@x.com")
	resp, _ := doJSON(t, srv, http.MethodDelete, "/api/auth/sessions/does-not-exist", body["access_token"].(string), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_ProtectedWithoutToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/auth/sessions", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
