package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authservice "yookye/backend/internal/auth/service"
	"yookye/backend/internal/security"
)

// Authorizer validates a bearer token and returns the caller's identity.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (*authservice.Identity, error)
}

// Auth guards a handler with bearer-token authentication. On success the
// caller's identity is injected into the request context.
func Auth(authorizer Authorizer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		identity, err := authorizer.Authorize(r.Context(), token)
		if err != nil {
			status, msg := authFailure(err)
			writeError(w, status, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// OptionalAuth attaches an identity when a valid bearer token is present but
// lets the request through anonymously otherwise. Storage faults still fail
// the request; silently downgrading to anonymous would mask the outage.
func OptionalAuth(authorizer Authorizer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := authorizer.Authorize(r.Context(), token)
		if err != nil {
			if errors.Is(err, authservice.ErrStorageUnavailable) {
				writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// authFailure maps auth service errors to transport statuses. Storage faults
// stay a 503; everything else is a 401 with a failure-specific message.
func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, authservice.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	case errors.Is(err, security.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, authservice.ErrTokenRevoked):
		return http.StatusUnauthorized, "token has been revoked"
	case errors.Is(err, authservice.ErrNoActiveSession):
		return http.StatusUnauthorized, "session is no longer active"
	default:
		return http.StatusUnauthorized, "invalid token"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
