package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates the fulfillment states of an order.
type Status string

const (
	StatusNew                 Status = "NEW"
	StatusValidationPending   Status = "VALIDATION_PENDING"
	StatusValidated           Status = "VALIDATED"
	StatusValidationException Status = "VALIDATION_EXCEPTION"
	StatusAllocationPending   Status = "ALLOCATION_PENDING"
	StatusAllocated           Status = "ALLOCATED"
	StatusAllocationException Status = "ALLOCATION_EXCEPTION"
	StatusPendingInventory    Status = "PENDING_INVENTORY"
	StatusPickedUp            Status = "PICKED_UP"
	StatusDelivered           Status = "DELIVERED"
	StatusDeliveryException   Status = "DELIVERY_EXCEPTION"
	StatusCancelled           Status = "CANCELLED"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusNew,
	StatusValidationPending,
	StatusValidated,
	StatusValidationException,
	StatusAllocationPending,
	StatusAllocated,
	StatusAllocationException,
	StatusPendingInventory,
	StatusPickedUp,
	StatusDelivered,
	StatusDeliveryException,
	StatusCancelled,
}

var ErrInvalidStatus = errors.New("order status is invalid")

// validNext is the allowed-transition table. Terminal states have no entry.
var validNext = map[Status][]Status{
	StatusNew:                 {StatusValidationPending, StatusCancelled},
	StatusValidationPending:   {StatusValidated, StatusValidationException, StatusCancelled},
	StatusValidated:           {StatusAllocationPending, StatusCancelled},
	StatusValidationException: {StatusValidationPending, StatusCancelled},
	StatusAllocationPending:   {StatusAllocated, StatusAllocationException, StatusPendingInventory, StatusCancelled},
	StatusPendingInventory:    {StatusAllocated, StatusAllocationException, StatusCancelled},
	StatusAllocationException: {StatusAllocationPending, StatusCancelled},
	StatusAllocated:           {StatusPickedUp, StatusCancelled},
	StatusPickedUp:            {StatusDelivered, StatusDeliveryException, StatusCancelled},
}

// ParseStatus accepts a status name case-insensitively.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return candidate, nil
}

// Valid reports whether s is a member of the enumeration.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// CanTransition reports whether the table allows moving from one status to another.
// Re-asserting the current status is always allowed.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s Status) []Status {
	next := validNext[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// TransitionPolicy decides whether the transition table is consulted on status updates.
type TransitionPolicy int

const (
	// Permissive accepts any enumerated status regardless of the current one.
	Permissive TransitionPolicy = iota
	// Strict rejects moves that the transition table does not list.
	Strict
)

// ParseTransitionPolicy maps "strict" and "permissive" (or empty) to a policy.
func ParseTransitionPolicy(raw string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("unknown status transition policy %q", raw)
	}
}

func (p TransitionPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "permissive"
}

// InvalidTransitionError reports a move the strict policy refused.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidStatus }
