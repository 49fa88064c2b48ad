package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type locationCreateRequest struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Heading    *float64  `json:"heading"`
	SpeedKmh   *float64  `json:"speed_kmh"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SchedulesLocationCreate ingests one collector position ping. The tracking
// service rejects callers other than the assigned collector and schedules
// that are not en route.
func (a *App) SchedulesLocationCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	var req locationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		a.error(w, http.StatusBadRequest, "bad_request", "coordinates out of range")
		return
	}
	if req.Heading != nil && (*req.Heading < 0 || *req.Heading > 360) {
		a.error(w, http.StatusBadRequest, "bad_request", "heading must be between 0 and 360")
		return
	}
	if req.RecordedAt.IsZero() {
		a.error(w, http.StatusBadRequest, "bad_request", "recorded_at is required")
		return
	}

	sample := domain.LocationSample{
		Lat:        req.Lat,
		Lng:        req.Lng,
		Heading:    req.Heading,
		SpeedKmh:   req.SpeedKmh,
		RecordedAt: req.RecordedAt,
	}
	saved, err := a.Tracking.Ingest(r.Context(), chi.URLParam(r, "id"), actor, sample)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, newLocationResponse(saved))
}
