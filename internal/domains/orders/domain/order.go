package domain

import (
	"errors"
	"fmt"
)

const MaxCallbackURLLength = 255

var (
	ErrInvalidCustomerID   = errors.New("customer id must be greater than zero")
	ErrNoOrderLines        = errors.New("order must contain at least one line")
	ErrInvalidBeerID       = errors.New("beer id must be greater than zero")
	ErrInvalidQuantity     = errors.New("order quantity must be greater than zero")
	ErrCallbackURLTooLong  = fmt.Errorf("callback url must be at most %d characters", MaxCallbackURLLength)
	ErrInvalidAllocatedQty = errors.New("allocated quantity must not be negative")
)

// Order is the aggregate root. It exclusively owns its Lines; Customer and
// beers are held by id only.
type Order struct {
	ID          int64
	Version     int64
	Status      Status
	CallbackURL string
	CustomerID  int64
	Lines       []OrderLine
}

// OrderLine is a requested quantity of one beer within an order.
type OrderLine struct {
	ID                int64
	Version           int64
	OrderID           int64
	BeerID            int64
	OrderQuantity     int32
	QuantityAllocated int32
}

// LineRequest is a client-supplied (beer, quantity) pair.
type LineRequest struct {
	BeerID   int64
	Quantity int32
}

// LineError pins a line validation failure to its position in the request.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("order line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ValidateRequest checks the request shape without consulting any store.
func ValidateRequest(customerID int64, callbackURL string, lines []LineRequest) error {
	if customerID <= 0 {
		return ErrInvalidCustomerID
	}
	if len(callbackURL) > MaxCallbackURLLength {
		return ErrCallbackURLTooLong
	}
	if len(lines) == 0 {
		return ErrNoOrderLines
	}
	for i, line := range lines {
		if line.BeerID <= 0 {
			return &LineError{Index: i, Err: ErrInvalidBeerID}
		}
		if line.Quantity <= 0 {
			return &LineError{Index: i, Err: ErrInvalidQuantity}
		}
	}
	return nil
}

// NewOrder builds an unsaved order in status NEW with nothing allocated.
// References must already be resolved by the caller.
func NewOrder(customerID int64, callbackURL string, lines []LineRequest) (*Order, error) {
	if err := ValidateRequest(customerID, callbackURL, lines); err != nil {
		return nil, err
	}
	order := &Order{
		Status:      StatusNew,
		CallbackURL: callbackURL,
		CustomerID:  customerID,
		Lines:       make([]OrderLine, 0, len(lines)),
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, OrderLine{
			BeerID:        line.BeerID,
			OrderQuantity: line.Quantity,
		})
	}
	return order, nil
}

// Validate enforces aggregate invariants before persistence.
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(o.CallbackURL) > MaxCallbackURLLength {
		return ErrCallbackURLTooLong
	}
	if len(o.Lines) == 0 {
		return ErrNoOrderLines
	}
	for i, line := range o.Lines {
		switch {
		case line.BeerID <= 0:
			return &LineError{Index: i, Err: ErrInvalidBeerID}
		case line.OrderQuantity <= 0:
			return &LineError{Index: i, Err: ErrInvalidQuantity}
		case line.QuantityAllocated < 0:
			return &LineError{Index: i, Err: ErrInvalidAllocatedQty}
		}
	}
	return nil
}

// ChangeStatus assigns next and returns the previous status. Under the Strict
// policy the transition table must allow the move.
func (o *Order) ChangeStatus(next Status, policy TransitionPolicy) (Status, error) {
	if !next.Valid() {
		return o.Status, ErrInvalidStatus
	}
	if policy == Strict && !CanTransition(o.Status, next) {
		return o.Status, &InvalidTransitionError{From: o.Status, To: next}
	}
	previous := o.Status
	o.Status = next
	return previous, nil
}

// BeerIDs returns the distinct beer ids referenced by the lines, in first-seen order.
func (o *Order) BeerIDs() []int64 {
	return distinctBeerIDs(o.Lines)
}

// Clone deep-copies the aggregate including its lines.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.Lines != nil {
		clone.Lines = make([]OrderLine, len(o.Lines))
		copy(clone.Lines, o.Lines)
	}
	return &clone
}

func distinctBeerIDs(lines []OrderLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.BeerID]; ok {
			continue
		}
		seen[line.BeerID] = struct{}{}
		ids = append(ids, line.BeerID)
	}
	return ids
}
