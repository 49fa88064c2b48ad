package domain

import (
	"fmt"
	"time"
)

// Status values mirror the schedule_status enum in PostgreSQL.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusEnRoute  Status = "en_route"
	StatusArrived  Status = "arrived"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusAccepted, StatusEnRoute, StatusArrived, StatusDone, StatusCanceled:
		return st, nil
	}
	return "", fmt.Errorf("unknown schedule status %q", s)
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Schedule is a pickup request: created by a donor, claimed and executed by
// a collector. CollectorID stays nil until the schedule is claimed.
type Schedule struct {
	ID          string
	DonorID     string
	CollectorID *string
	Status      Status
	ScheduledAt time.Time
	Notes       string

	PickupAddressText string
	PickupLat         *float64
	PickupLng         *float64

	Materials []ScheduleMaterial

	// Display names joined from users; empty when not loaded.
	DonorName     string
	CollectorName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleMaterial is one (material, quantity) line of a schedule.
type ScheduleMaterial struct {
	Material   Material
	QuantityKg float64
}

// HasPickupCoords reports whether the pickup location carries coordinates
// usable as a route destination.
func (s *Schedule) HasPickupCoords() bool {
	return s.PickupLat != nil && s.PickupLng != nil
}

// AssignedTo reports whether the given user is the assigned collector.
func (s *Schedule) AssignedTo(userID string) bool {
	return s.CollectorID != nil && *s.CollectorID == userID
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	DonorID       string
	CollectorID   string
	Status        Status
	UnclaimedOnly bool
	Limit         int
}
