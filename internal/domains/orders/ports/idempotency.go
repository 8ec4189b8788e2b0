package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different order payload.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different order")

// IdempotencyRecord ties a client-supplied key to the order it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retried placements return the first order.
type IdempotencyStore interface {
	// Get returns nil when the key is unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save stores the record, or returns the existing one when the key is taken.
	// A stored record for a different request yields ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
