package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/middleware"
	"server/internal/providers/routing"
)

type trackCollectorResponse struct {
	Name string `json:"name"`
}

type trackResponse struct {
	Schedule       scheduleResponse        `json:"schedule"`
	Collector      *trackCollectorResponse `json:"collector"`
	LatestLocation *locationResponse       `json:"latest_location"`
	Locations      []locationResponse      `json:"locations"`
	Route          *routing.Route          `json:"route"`
}

// SchedulesTrack serves the aggregated live-tracking view for polling
// clients: schedule state, latest position, recent path and an optional
// route. When no route is available the client draws a straight line; the
// server never errors over provider outages.
func (a *App) SchedulesTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.currentActor(w, r)
	if !ok {
		return
	}
	track, err := a.Tracking.GetTrack(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}

	resp := trackResponse{
		Schedule:  newScheduleResponse(track.Schedule, middleware.LocaleFromContext(r.Context())),
		Locations: make([]locationResponse, 0, len(track.Path)),
		Route:     track.Route,
	}
	if track.Schedule.CollectorName != "" {
		resp.Collector = &trackCollectorResponse{Name: track.Schedule.CollectorName}
	}
	if track.Latest != nil {
		latest := newLocationResponse(track.Latest)
		resp.LatestLocation = &latest
	}
	for i := range track.Path {
		resp.Locations = append(resp.Locations, newLocationResponse(&track.Path[i]))
	}
	a.json(w, http.StatusOK, resp)
}
