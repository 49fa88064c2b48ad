// Package assignment owns the schedule lifecycle: the race-free claim and
// the validated status transitions.
package assignment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/events"
)

// Service coordinates claims and transitions over the schedule store. All
// writers of the status/collector pair go through the conditional updates
// here; there is no application-level locking.
type Service struct {
	schedules domain.ScheduleRepository
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewService creates an assignment service.
func NewService(schedules domain.ScheduleRepository, publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{schedules: schedules, publisher: publisher, logger: logger}
}

// Claim assigns a pending, unclaimed schedule to the calling collector.
// The write is a single conditional UPDATE keyed on "pending and
// unassigned": of two concurrent claims exactly one matches a row, and the
// loser gets ErrAlreadyClaimed.
func (s *Service) Claim(ctx context.Context, scheduleID string, actor domain.Actor) (*domain.Schedule, error) {
	if actor.Role != domain.RoleCollector {
		return nil, domain.ErrForbidden
	}

	claimed, err := s.schedules.ClaimPending(ctx, scheduleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Zero rows: either the schedule does not exist or someone else
		// got there first. The extra read only decides the error.
		if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyClaimed
	}

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, schedule)
	return schedule, nil
}

// Transition moves a schedule to the target status when the transition
// table allows the (from, to) pair for this actor. The status write is
// conditional on the from-status, so a transition that lost a concurrent
// race fails cleanly instead of overwriting the winner.
func (s *Service) Transition(ctx context.Context, scheduleID string, actor domain.Actor, target domain.Status) (*domain.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(schedule, actor, target); err != nil {
		return nil, err
	}

	updated, err := s.schedules.UpdateStatusFrom(ctx, scheduleID, schedule.Status, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost to a concurrent transition; reload to report the right error.
		fresh, err := s.schedules.GetByID(ctx, scheduleID)
		if err != nil {
			return nil, err
		}
		if fresh.Status.Terminal() {
			return nil, domain.ErrAlreadyClosed
		}
		return nil, domain.ErrInvalidTransition
	}

	fresh, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, fresh)
	return fresh, nil
}

// notify hands the status change to the notification collaborator. Failures
// are logged and swallowed: events are best effort, the transition already
// happened.
func (s *Service) notify(ctx context.Context, schedule *domain.Schedule) {
	ev := events.StatusChanged{
		ScheduleID: schedule.ID,
		Status:     string(schedule.Status),
		DonorID:    schedule.DonorID,
		At:         time.Now().UTC(),
	}
	if schedule.CollectorID != nil {
		ev.CollectorID = *schedule.CollectorID
	}
	if err := s.publisher.StatusChanged(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("failed to publish status event")
	}
}
