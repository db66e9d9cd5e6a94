package domain

import (
	"errors"
	"fmt"
)

// Status enumerates order progression.
//
//	placed ──> packed ──> dispatched ──> delivered
//
// The arrow order is only enforced under TransitionForwardOnly.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusPacked     Status = "packed"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
)

// Statuses lists the lifecycle in order.
func Statuses() []Status {
	return []Status{StatusPlaced, StatusPacked, StatusDispatched, StatusDelivered}
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	return s.rank() >= 0
}

func (s Status) rank() int {
	switch s {
	case StatusPlaced:
		return 0
	case StatusPacked:
		return 1
	case StatusDispatched:
		return 2
	case StatusDelivered:
		return 3
	default:
		return -1
	}
}

// ParseStatus converts raw text into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// TransitionPolicy decides which status changes are allowed.
type TransitionPolicy int

const (
	// TransitionAny accepts any valid status from any other, backwards included.
	TransitionAny TransitionPolicy = iota
	// TransitionForwardOnly accepts only the next lifecycle step or the current status.
	TransitionForwardOnly
)

// Check returns ErrInvalidTransition when moving from -> to violates the policy.
func (p TransitionPolicy) Check(from, to Status) error {
	if p != TransitionForwardOnly || from == to {
		return nil
	}
	if to.rank() != from.rank()+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func (p TransitionPolicy) String() string {
	if p == TransitionForwardOnly {
		return "forward-only"
	}
	return "any"
}
