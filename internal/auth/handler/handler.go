package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authservice "yookye/backend/internal/auth/service"
	"yookye/backend/internal/observability"
	"yookye/backend/internal/security"
	"yookye/backend/internal/server/middleware"
)

const maxJSONBodyBytes = 1 << 20

// Handler exposes the auth operations over JSON.
type Handler struct {
	service *authservice.AuthService
}

func NewHandler(service *authservice.AuthService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Register(r.Context(), body.Email, body.Password, body.Name, body.Username, origin(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTokenResponse(res))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Login(r.Context(), body.Email, body.Password, origin(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(res))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Refresh(r.Context(), strings.TrimSpace(body.RefreshToken))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(res))
}

// Logout runs behind the auth middleware; the identity comes from context.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.service.Logout(r.Context(), identity); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	sessions, err := h.service.ListSessions(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, newSessionResponse(s, identity.SessionID))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	if err := h.service.RevokeSession(r.Context(), sessionID, identity.UserID); err != nil {
		if errors.Is(err, authservice.ErrNoActiveSession) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps auth service failures to statuses. Storage faults go
// to Sentry; credential failures do not.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authservice.ErrEmailAlreadyRegistered):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, authservice.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, authservice.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, authservice.ErrStorageUnavailable):
		observability.CaptureError(err, map[string]any{"component": "auth"})
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, security.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "token expired")
	case errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, authservice.ErrTokenRevoked),
		errors.Is(err, authservice.ErrNoActiveSession):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func origin(r *http.Request) authservice.OriginMeta {
	return authservice.OriginMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
