package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	authservice "yookye/backend/internal/auth/service"
	"yookye/backend/internal/observability"
	"yookye/backend/internal/server/middleware"
	userservice "yookye/backend/internal/user/service"
)

const maxJSONBodyBytes = 1 << 20

// Handler exposes the account surfaces: profile, preferences, dashboard,
// activity feed, data export, and account deletion. Every route runs behind
// the auth middleware.
type Handler struct {
	auth  *authservice.AuthService
	users *userservice.UserService
}

func NewHandler(auth *authservice.AuthService, users *userservice.UserService) *Handler {
	return &Handler{auth: auth, users: users}
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, err := h.auth.Profile(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var body updateProfileRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), identity.UserID, body.Name, body.Username)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(user))
}

func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	rec, err := h.users.Preferences(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusOK, map[string]any{"preferences": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": rec.Preferences})
}

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var body preferencesRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.users.SavePreferences(r.Context(), identity.UserID, body.toPreferences())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "preferences saved",
		"preferences": rec.Preferences,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	dashboard, err := h.users.Dashboard(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	activities, err := h.users.Activity(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"activities": activities,
		"total":      len(activities),
	})
}

func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	export, err := h.users.ExportData(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="yookye_data_export.json"`)
	writeJSON(w, http.StatusOK, export)
}

// DeleteAccount re-checks the password before soft-deleting the account and
// revoking every session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var body deleteAccountRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.auth.DeleteAccount(r.Context(), identity, body.Password); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userservice.ErrUserNotFound),
		errors.Is(err, authservice.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, authservice.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, userservice.ErrStorageUnavailable),
		errors.Is(err, authservice.ErrStorageUnavailable):
		observability.CaptureError(err, map[string]any{"component": "user"})
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
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

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
