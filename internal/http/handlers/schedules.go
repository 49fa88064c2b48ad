package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
)

type scheduleMaterialRequest struct {
	ID         string  `json:"id"`
	QuantityKg float64 `json:"quantity_kg"`
}

type scheduleCreateRequest struct {
	ScheduledAt       time.Time                 `json:"scheduled_at"`
	Notes             string                    `json:"notes"`
	UseProfileAddress bool                      `json:"use_profile_address"`
	PickupAddressText string                    `json:"pickup_address_text"`
	PickupLat         *float64                  `json:"pickup_lat"`
	PickupLng         *float64                  `json:"pickup_lng"`
	Materials         []scheduleMaterialRequest `json:"materials"`
}

// SchedulesCreate lets a donor open a pickup request. The schedule starts
// pending with no collector; claiming is a separate operation.
func (a *App) SchedulesCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	if actor.Role != domain.RoleDonor && !actor.IsAdmin() {
		a.error(w, http.StatusForbidden, "forbidden", "only donors or admin can create schedules")
		return
	}

	var req scheduleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ScheduledAt.IsZero() {
		a.error(w, http.StatusBadRequest, "bad_request", "scheduled_at is required")
		return
	}
	if len(req.Materials) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one material is required")
		return
	}
	for _, m := range req.Materials {
		if m.QuantityKg <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "material quantity must be positive")
			return
		}
	}

	if req.UseProfileAddress {
		user, err := a.Users.GetByID(r.Context(), actor.ID)
		if err != nil {
			a.domainError(w, err)
			return
		}
		if !user.HasAddress() {
			a.error(w, http.StatusUnprocessableEntity, "missing_address", "complete your profile address before using the default address")
			return
		}
		req.PickupAddressText = strings.TrimSpace(fmt.Sprintf(
			"%s, %s - %s, %s - %s, %s",
			user.AddressStreet,
			user.AddressNumber,
			user.AddressNeighborhood,
			user.AddressCity,
			user.AddressState,
			user.AddressZip,
		))
		req.PickupLat = user.AddressLat
		req.PickupLng = user.AddressLng
	}
	if strings.TrimSpace(req.PickupAddressText) == "" {
		a.error(w, http.StatusUnprocessableEntity, "missing_address", "pickup location is required")
		return
	}

	ids := make([]string, 0, len(req.Materials))
	for _, m := range req.Materials {
		ids = append(ids, m.ID)
	}
	catalog, err := a.Materials.GetByIDs(r.Context(), ids)
	if err != nil {
		a.domainError(w, err)
		return
	}
	byID := make(map[string]domain.Material, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	schedule := &domain.Schedule{
		ID:                uuid.NewString(),
		DonorID:           actor.ID,
		Status:            domain.StatusPending,
		ScheduledAt:       req.ScheduledAt,
		Notes:             req.Notes,
		PickupAddressText: req.PickupAddressText,
		PickupLat:         req.PickupLat,
		PickupLng:         req.PickupLng,
	}
	for _, m := range req.Materials {
		material, ok := byID[m.ID]
		if !ok {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown material "+m.ID)
			return
		}
		schedule.Materials = append(schedule.Materials, domain.ScheduleMaterial{
			Material:   material,
			QuantityKg: m.QuantityKg,
		})
	}

	if err := a.Schedules.Create(r.Context(), schedule); err != nil {
		a.domainError(w, err)
		return
	}

	created, err := a.Schedules.GetByID(r.Context(), schedule.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, newScheduleResponse(created, middleware.LocaleFromContext(r.Context())))
}

// SchedulesList is the role-scoped listing: donors see their own schedules,
// collectors see the unclaimed pending pool or their own assignments, admin
// filters freely by status.
func (a *App) SchedulesList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}

	statusParam := r.URL.Query().Get("status")
	var status domain.Status
	if statusParam != "" {
		parsed, err := domain.ParseStatus(statusParam)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		status = parsed
	}

	filter := domain.ScheduleFilter{Limit: 20}
	switch actor.Role {
	case domain.RoleDonor:
		filter.DonorID = actor.ID
		filter.Status = status
	case domain.RoleCollector:
		if status == domain.StatusPending {
			filter.Status = domain.StatusPending
			filter.UnclaimedOnly = true
		} else {
			filter.CollectorID = actor.ID
			filter.Status = status
		}
	default:
		filter.Status = status
	}

	a.listSchedules(w, r, filter)
}

// SchedulesMine lists the donor's own schedules.
func (a *App) SchedulesMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	a.listSchedules(w, r, domain.ScheduleFilter{DonorID: actor.ID, Limit: 50})
}

// SchedulesMyCollections lists the schedules the collector has claimed.
func (a *App) SchedulesMyCollections(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	a.listSchedules(w, r, domain.ScheduleFilter{CollectorID: actor.ID, Limit: 50})
}

func (a *App) listSchedules(w http.ResponseWriter, r *http.Request, filter domain.ScheduleFilter) {
	items, err := a.Schedules.List(r.Context(), filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	out := make([]scheduleResponse, 0, len(items))
	for i := range items {
		out = append(out, newScheduleResponse(&items[i], locale))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// SchedulesClaim assigns a pending schedule to the calling collector.
// Losing the claim race is a normal outcome surfaced as 422 already_claimed.
func (a *App) SchedulesClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	schedule, err := a.Assignment.Claim(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, newScheduleResponse(schedule, middleware.LocaleFromContext(r.Context())))
}

type transitionRequest struct {
	Target string `json:"target"`
}

// SchedulesTransition validates and applies one lifecycle transition.
func (a *App) SchedulesTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	target, err := domain.ParseStatus(req.Target)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	schedule, err := a.Assignment.Transition(r.Context(), chi.URLParam(r, "id"), actor, target)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, newScheduleResponse(schedule, middleware.LocaleFromContext(r.Context())))
}
