package order

import (
	"errors"
	"fmt"

	"orderhub/internal/pkg/errs"
)

var (
	// ErrInvalidTransition is the kind of the StateConflictError returned for an edge
	// that is not in the status graph. Callers should not retry.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is the kind returned when another writer changed the
	// order first. Callers may re-read the order and retry.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Preparing ──> Ready ──┬──> Delivered  (delivery orders)
//	   │            │                 └──> Completed  (pickup, dine_in)
//	   │            │
//	   └────────────┴──> Cancelled   (from Preparing only when the policy allows)
//
// Ready orders cannot be cancelled. Delivered, Completed and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Preparing
	Ready
	Delivered
	Completed
	Cancelled
)

// allowedTransitions is the allow-list of edges. Type and policy checks are layered on
// top of it in ValidateTransition.
var allowedTransitions = map[Status][]Status{
	Pending:   {Preparing, Cancelled},
	Preparing: {Ready, Cancelled},
	Ready:     {Delivered, Completed},
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Preparing: "preparing",
		Ready:     "ready",
		Delivered: "delivered",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Preparing, Ready, Delivered, Completed, Cancelled}
}

// ParseStatus converts the wire form ("pending", "ready", ...) to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the known statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Completed || s == Cancelled
}

// CancellationPolicy decides whether an order that the kitchen already started may
// still be cancelled.
type CancellationPolicy struct {
	AllowWhilePreparing bool
}

// DefaultCancellationPolicy allows cancelling orders in preparation.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{AllowWhilePreparing: true}
}

// ValidateTransition checks the edge s -> to for an order of type t under policy.
// A rejected edge is reported as a StateConflictError of kind ErrInvalidTransition.
func (s Status) ValidateTransition(to Status, t Type, policy CancellationPolicy) error {
	if err := to.Validate(); err != nil {
		return err
	}

	if !s.hasEdge(to) {
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s", s, to)
	}

	switch {
	case to == Delivered && t != Delivery:
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s is only valid for delivery orders", s, to)
	case to == Completed && t == Delivery:
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s is not valid for delivery orders", s, to)
	case s == Preparing && to == Cancelled && !policy.AllowWhilePreparing:
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s is disabled by the cancellation policy", s, to)
	}

	return nil
}

func (s Status) hasEdge(to Status) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == to {
			return true
		}
	}
	return false
}
