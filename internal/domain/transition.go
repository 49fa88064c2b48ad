package domain

// The schedule lifecycle:
//
//	pending ──► accepted ──► en_route ──► arrived ──► done
//	    │            │
//	    └────────────┴──► canceled
//
// done and canceled are terminal states.

// transitionActor names who may invoke a given (from → to) pair.
type transitionActor int

const (
	// assignedCollector: only the collector the schedule was claimed by.
	assignedCollector transitionActor = iota
	// owningDonorOrAdmin: the donor who created the schedule, or an admin.
	owningDonorOrAdmin
)

// validTransitions lists every allowed (from → to) pair together with the
// actor rule guarding it. Anything absent here is rejected.
var validTransitions = map[Status]map[Status]transitionActor{
	StatusPending:  {StatusCanceled: owningDonorOrAdmin},
	StatusAccepted: {StatusEnRoute: assignedCollector, StatusCanceled: owningDonorOrAdmin},
	StatusEnRoute:  {StatusArrived: assignedCollector},
	StatusArrived:  {StatusDone: owningDonorOrAdmin},
	// done and canceled have no outgoing transitions
}

// ValidateTransition checks the transition table for the requested target
// and the actor attempting it. The error distinguishes terminal schedules
// (ErrAlreadyClosed), pairs outside the table (ErrInvalidTransition) and
// actors the table does not authorize (ErrForbidden).
func ValidateTransition(s *Schedule, actor Actor, target Status) error {
	if s.Status.Terminal() {
		return ErrAlreadyClosed
	}
	rule, ok := validTransitions[s.Status][target]
	if !ok {
		return ErrInvalidTransition
	}
	switch rule {
	case assignedCollector:
		if !s.AssignedTo(actor.ID) {
			return ErrForbidden
		}
	case owningDonorOrAdmin:
		if actor.ID != s.DonorID && !actor.IsAdmin() {
			return ErrForbidden
		}
	}
	return nil
}
