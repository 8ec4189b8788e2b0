package domain

import "errors"

var (
	ErrInvalidBeerID   = errors.New("inventory beer id must be greater than zero")
	ErrInvalidQuantity = errors.New("inventory quantity must not be negative")
)

// Record is a snapshot of how much of one beer is on hand.
type Record struct {
	ID             int64
	Version        int64
	BeerID         int64
	QuantityOnHand int32
}

func (r *Record) Validate() error {
	if r.BeerID <= 0 {
		return ErrInvalidBeerID
	}
	if r.QuantityOnHand < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
