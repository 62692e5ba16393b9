package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"yookye/backend/internal/observability"
	"yookye/backend/internal/server/middleware"
	"yookye/backend/internal/travel/domain"
	"yookye/backend/internal/travel/searchapi"
	travelservice "yookye/backend/internal/travel/service"
)

const maxJSONBodyBytes = 1 << 20

// Handler exposes the travel request operations over JSON.
type Handler struct {
	service *travelservice.TravelService
}

func NewHandler(service *travelservice.TravelService) *Handler {
	return &Handler{service: service}
}

// Submit accepts a travel form. It runs behind the optional-auth middleware,
// so anonymous submissions come through with no identity attached.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	travel, err := h.service.Submit(r.Context(), middleware.GetUserID(r.Context()), body.toForm())
	if err != nil {
		if errors.Is(err, searchapi.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "external service authentication failed")
			return
		}
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "travel request submitted successfully",
		"travel_id":  travel.ID,
		"status":     string(travel.Status),
		"next_steps": "Our local experts will review your request and send you personalized proposals via email within 24-48 hours.",
	})
}

func (h *Handler) MyTravels(w http.ResponseWriter, r *http.Request) {
	travels, err := h.service.MyTravels(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]travelSummary, 0, len(travels))
	for _, t := range travels {
		out = append(out, newTravelSummary(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"travels": out, "total": len(out)})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	travel, err := h.service.Detail(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"travel": newTravelDetail(travel)})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body updateStatusRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	travel, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"),
		domain.Status(body.Status), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "travel status updated successfully",
		"travel_id": travel.ID,
		"status":    string(travel.Status),
	})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"statistics": stats})
}

// Destinations is the public catalogue; no authentication.
func (h *Handler) Destinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"destinations": h.service.Destinations()})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, travelservice.ErrNotFound):
		writeError(w, http.StatusNotFound, "travel request not found")
	case errors.Is(err, travelservice.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, travelservice.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid status")
	case errors.Is(err, travelservice.ErrStorageUnavailable):
		observability.CaptureError(err, map[string]any{"component": "travel"})
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
