package domain

import "time"

// LocationSample is one reported collector position for a schedule.
// Samples are append-only: they are never updated after insert, and
// presentation order is by RecordedAt (client clock), not arrival order.
type LocationSample struct {
	ID          int64
	ScheduleID  string
	CollectorID string
	Lat         float64
	Lng         float64
	Heading     *float64
	SpeedKmh    *float64
	RecordedAt  time.Time
	CreatedAt   time.Time
}
