package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/assignment"
	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/tracking"
)

// App is the handler container: repositories for reads, services for the
// lifecycle and tracking operations.
type App struct {
	Schedules  domain.ScheduleRepository
	Locations  domain.LocationRepository
	Materials  domain.MaterialRepository
	Users      domain.UserRepository
	Assignment *assignment.Service
	Tracking   *tracking.Service
	Logger     zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// domainError maps the error taxonomy onto HTTP responses. Claim and
// transition failures are deterministic and carry enough detail to render a
// user message; nothing here is retried server-side.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "schedule not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "you are not allowed to do that")
	case errors.Is(err, domain.ErrNotEnRoute):
		a.error(w, http.StatusForbidden, "forbidden", "schedule is not en route")
	case errors.Is(err, domain.ErrAlreadyClaimed):
		a.error(w, http.StatusUnprocessableEntity, "already_claimed", "schedule already taken or not pending")
	case errors.Is(err, domain.ErrAlreadyClosed):
		a.error(w, http.StatusUnprocessableEntity, "already_closed", "schedule already closed")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusUnprocessableEntity, "invalid_transition", "status change not allowed from the current state")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// currentActor returns the identity resolved by the auth middleware. The
// false return means the route was wired without AuthJWT.
func (a *App) currentActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return domain.Actor{}, false
	}
	return actor, true
}
