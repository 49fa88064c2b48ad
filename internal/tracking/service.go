// Package tracking ingests collector position samples and assembles the
// live track view a polling client consumes.
package tracking

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/routing"
)

// RecentPathLimit caps how many samples the track view returns for path
// reconstruction.
const RecentPathLimit = 50

// RouteFinder is the slice of the routing chain the aggregator needs.
type RouteFinder interface {
	Route(ctx context.Context, origin, dest routing.Point) *routing.Route
}

// Service enforces the ingestion policy and aggregates the track view.
type Service struct {
	schedules domain.ScheduleRepository
	locations domain.LocationRepository
	routes    RouteFinder
	logger    zerolog.Logger
}

// NewService creates a tracking service.
func NewService(schedules domain.ScheduleRepository, locations domain.LocationRepository, routes RouteFinder, logger zerolog.Logger) *Service {
	return &Service{schedules: schedules, locations: locations, routes: routes, logger: logger}
}

// Ingest appends one position sample. Only the assigned collector may
// report, and only while the schedule is en route; the ledger itself stays
// policy-free. Samples are best-effort telemetry: the mobile client retries
// or drops failed calls without consistency consequences.
func (s *Service) Ingest(ctx context.Context, scheduleID string, actor domain.Actor, sample domain.LocationSample) (*domain.LocationSample, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !schedule.AssignedTo(actor.ID) {
		return nil, domain.ErrForbidden
	}
	if schedule.Status != domain.StatusEnRoute {
		return nil, domain.ErrNotEnRoute
	}

	sample.ScheduleID = schedule.ID
	sample.CollectorID = actor.ID
	if err := s.locations.Insert(ctx, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

// Track is the aggregated view: current schedule state, latest position,
// recent path and an optional externally computed route.
type Track struct {
	Schedule *domain.Schedule
	Latest   *domain.LocationSample
	Path     []domain.LocationSample
	Route    *routing.Route
}

// GetTrack assembles the track for the schedule. Only the owning donor, the
// assigned collector or an admin may read it. Nothing here is cached: every
// poll recomputes from current state so the ETA stays fresh.
func (s *Service) GetTrack(ctx context.Context, scheduleID string, actor domain.Actor) (*Track, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if actor.ID != schedule.DonorID && !schedule.AssignedTo(actor.ID) && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	latest, err := s.locations.Latest(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	path, err := s.locations.Recent(ctx, scheduleID, RecentPathLimit)
	if err != nil {
		return nil, err
	}

	track := &Track{Schedule: schedule, Latest: latest, Path: path}

	// Route needs both ends: the collector's latest position and pickup
	// coordinates. When either is missing the route is simply omitted and
	// the client falls back to a straight line.
	if latest != nil && schedule.HasPickupCoords() && s.routes != nil {
		origin := routing.Point{Lat: latest.Lat, Lng: latest.Lng}
		dest := routing.Point{Lat: *schedule.PickupLat, Lng: *schedule.PickupLng}
		track.Route = s.routes.Route(ctx, origin, dest)
	}
	return track, nil
}
