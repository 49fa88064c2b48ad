package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	RoleDonor     UserRole = "donor"
	RoleCollector UserRole = "collector"
	RoleAdmin     UserRole = "admin"
)

// User represents an account resolved by the identity service. The core
// never authenticates credentials; it only consumes the resolved identity.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Saved pickup address, used when a donor schedules with
	// use_profile_address.
	AddressStreet       string
	AddressNumber       string
	AddressNeighborhood string
	AddressCity         string
	AddressState        string
	AddressZip          string
	AddressLat          *float64
	AddressLng          *float64
}

// HasAddress reports whether the profile carries enough address data to be
// used as a pickup location.
func (u User) HasAddress() bool {
	return u.AddressStreet != ""
}

// Actor is the caller identity attached to every core operation.
type Actor struct {
	ID   string
	Name string
	Role UserRole
}

// IsAdmin reports whether the actor holds the privileged role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
