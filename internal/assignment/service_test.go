package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/events"
)

// fakeScheduleStore mimics the conditional-update contract of the Postgres
// repo: claim and status writes succeed only when the guarded condition
// still holds under the lock.
type fakeScheduleStore struct {
	mu        sync.Mutex
	schedules map[string]*domain.Schedule
}

func newFakeScheduleStore(schedules ...*domain.Schedule) *fakeScheduleStore {
	s := &fakeScheduleStore{schedules: make(map[string]*domain.Schedule)}
	for _, sch := range schedules {
		cp := *sch
		s.schedules[sch.ID] = &cp
	}
	return s
}

func (s *fakeScheduleStore) Create(_ context.Context, schedule *domain.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *schedule
	s.schedules[schedule.ID] = &cp
	return nil
}

func (s *fakeScheduleStore) GetByID(_ context.Context, id string) (*domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sch
	return &cp, nil
}

func (s *fakeScheduleStore) List(context.Context, domain.ScheduleFilter) ([]domain.Schedule, error) {
	return nil, nil
}

func (s *fakeScheduleStore) ClaimPending(_ context.Context, scheduleID, collectorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[scheduleID]
	if !ok || sch.CollectorID != nil || sch.Status != domain.StatusPending {
		return false, nil
	}
	sch.Status = domain.StatusAccepted
	sch.CollectorID = &collectorID
	return true, nil
}

func (s *fakeScheduleStore) UpdateStatusFrom(_ context.Context, scheduleID string, from, to domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[scheduleID]
	if !ok || sch.Status != from {
		return false, nil
	}
	sch.Status = to
	return true, nil
}

var _ domain.ScheduleRepository = (*fakeScheduleStore)(nil)

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.StatusChanged
}

func (p *capturingPublisher) StatusChanged(_ context.Context, ev events.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func pendingSchedule(id, donorID string) *domain.Schedule {
	return &domain.Schedule{ID: id, DonorID: donorID, Status: domain.StatusPending}
}

func collectorActor(id string) domain.Actor {
	return domain.Actor{ID: id, Name: "Collector " + id, Role: domain.RoleCollector}
}

func TestClaim_AssignsPendingSchedule(t *testing.T) {
	store := newFakeScheduleStore(pendingSchedule("sch-1", "donor-1"))
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	got, err := svc.Claim(context.Background(), "sch-1", collectorActor("collector-a"))
	if err != nil {
		t.Fatalf("Claim returned error: %v", err)
	}
	if got.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want accepted", got.Status)
	}
	if got.CollectorID == nil || *got.CollectorID != "collector-a" {
		t.Errorf("collector = %v, want collector-a", got.CollectorID)
	}
}

func TestClaim_SecondClaimLoses(t *testing.T) {
	store := newFakeScheduleStore(pendingSchedule("sch-1", "donor-1"))
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	if _, err := svc.Claim(context.Background(), "sch-1", collectorActor("collector-a")); err != nil {
		t.Fatalf("first Claim returned error: %v", err)
	}
	_, err := svc.Claim(context.Background(), "sch-1", collectorActor("collector-b"))
	if !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("second Claim = %v, want ErrAlreadyClaimed", err)
	}

	sch, _ := store.GetByID(context.Background(), "sch-1")
	if *sch.CollectorID != "collector-a" {
		t.Errorf("collector = %s, the loser overwrote the winner", *sch.CollectorID)
	}
}

func TestClaim_ConcurrentClaimsExactlyOneWins(t *testing.T) {
	for i := 0; i < 50; i++ {
		store := newFakeScheduleStore(pendingSchedule("sch-1", "donor-1"))
		svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, collector := range []string{"collector-a", "collector-b"} {
			wg.Add(1)
			go func(idx int, who string) {
				defer wg.Done()
				_, errs[idx] = svc.Claim(context.Background(), "sch-1", collectorActor(who))
			}(j, collector)
		}
		wg.Wait()

		var wins, losses int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrAlreadyClaimed):
				losses++
			default:
				t.Fatalf("unexpected claim error: %v", err)
			}
		}
		if wins != 1 || losses != 1 {
			t.Fatalf("run %d: wins=%d losses=%d, want exactly one of each", i, wins, losses)
		}
	}
}

func TestClaim_RejectsNonCollectors(t *testing.T) {
	store := newFakeScheduleStore(pendingSchedule("sch-1", "donor-1"))
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	_, err := svc.Claim(context.Background(), "sch-1", domain.Actor{ID: "donor-1", Role: domain.RoleDonor})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Claim by donor = %v, want ErrForbidden", err)
	}
}

func TestClaim_UnknownScheduleIsNotFound(t *testing.T) {
	store := newFakeScheduleStore()
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	_, err := svc.Claim(context.Background(), "missing", collectorActor("collector-a"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Claim = %v, want ErrNotFound", err)
	}
}

func claimedSchedule(id, donorID, collectorID string, status domain.Status) *domain.Schedule {
	return &domain.Schedule{ID: id, DonorID: donorID, CollectorID: &collectorID, Status: status}
}

func TestTransition_HappyPath(t *testing.T) {
	store := newFakeScheduleStore(claimedSchedule("sch-1", "donor-1", "collector-a", domain.StatusAccepted))
	pub := &capturingPublisher{}
	svc := NewService(store, pub, zerolog.Nop())

	got, err := svc.Transition(context.Background(), "sch-1", collectorActor("collector-a"), domain.StatusEnRoute)
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if got.Status != domain.StatusEnRoute {
		t.Errorf("status = %s, want en_route", got.Status)
	}
	if len(pub.events) != 1 || pub.events[0].Status != "en_route" {
		t.Errorf("events = %+v, want one en_route event", pub.events)
	}
}

func TestTransition_TerminalScheduleAlwaysClosed(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusDone, domain.StatusCanceled} {
		store := newFakeScheduleStore(claimedSchedule("sch-1", "donor-1", "collector-a", status))
		svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

		for _, actor := range []domain.Actor{
			collectorActor("collector-a"),
			{ID: "donor-1", Role: domain.RoleDonor},
			{ID: "admin-1", Role: domain.RoleAdmin},
		} {
			_, err := svc.Transition(context.Background(), "sch-1", actor, domain.StatusDone)
			if !errors.Is(err, domain.ErrAlreadyClosed) {
				t.Errorf("Transition on %s schedule by %s = %v, want ErrAlreadyClosed", status, actor.ID, err)
			}
		}
	}
}

func TestTransition_LostRaceReportsCleanFailure(t *testing.T) {
	// The donor cancels between the collector's validation read and its
	// conditional write. The collector must see a clean error, and the
	// cancellation must survive.
	store := newFakeScheduleStore(claimedSchedule("sch-1", "donor-1", "collector-a", domain.StatusAccepted))
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	if _, err := svc.Transition(context.Background(), "sch-1", domain.Actor{ID: "donor-1", Role: domain.RoleDonor}, domain.StatusCanceled); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
	_, err := svc.Transition(context.Background(), "sch-1", collectorActor("collector-a"), domain.StatusEnRoute)
	if !errors.Is(err, domain.ErrAlreadyClosed) {
		t.Fatalf("late transition = %v, want ErrAlreadyClosed", err)
	}

	sch, _ := store.GetByID(context.Background(), "sch-1")
	if sch.Status != domain.StatusCanceled {
		t.Errorf("status = %s, the losing transition overwrote the cancellation", sch.Status)
	}
}

func TestTransition_InvalidPairRejected(t *testing.T) {
	store := newFakeScheduleStore(pendingSchedule("sch-1", "donor-1"))
	svc := NewService(store, &capturingPublisher{}, zerolog.Nop())

	_, err := svc.Transition(context.Background(), "sch-1", domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, domain.StatusEnRoute)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending → en_route = %v, want ErrInvalidTransition", err)
	}
}
