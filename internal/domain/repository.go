package domain

import "context"

// ScheduleRepository defines persistence for schedules. ClaimPending and
// UpdateStatusFrom are conditional writes: they report whether a row was
// affected instead of erroring, so the services can translate a lost race
// into the right domain error.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *Schedule) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)

	// ClaimPending atomically assigns the collector iff the schedule is
	// still pending and unassigned. Returns false when zero rows matched.
	ClaimPending(ctx context.Context, scheduleID, collectorID string) (bool, error)

	// UpdateStatusFrom moves status from → to iff the row still holds the
	// expected from-status. Returns false when zero rows matched.
	UpdateStatusFrom(ctx context.Context, scheduleID string, from, to Status) (bool, error)
}

// LocationRepository is the append-only ledger of collector positions.
type LocationRepository interface {
	Insert(ctx context.Context, sample *LocationSample) error

	// Recent returns the newest limit samples ordered by recorded_at
	// ascending (oldest first), for path reconstruction.
	Recent(ctx context.Context, scheduleID string, limit int) ([]LocationSample, error)

	// Latest returns the most recent sample by recorded_at, tie-broken by
	// insertion order, or nil when none exist.
	Latest(ctx context.Context, scheduleID string) (*LocationSample, error)
}

// MaterialRepository reads the materials catalog.
type MaterialRepository interface {
	List(ctx context.Context) ([]Material, error)
	GetByIDs(ctx context.Context, ids []string) ([]Material, error)
}

// UserRepository reads user profiles for display names and saved addresses.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
