package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload or order.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key to the order it placed. OrderID stays zero while the
// placement that reserved the key is still running.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pending reports whether the placement owning the key has not finished yet.
func (r IdempotencyRecord) Pending() bool {
	return r.OrderID == 0
}

// IdempotencyStore persists idempotency keys so retried placements can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve atomically claims an unknown key with a pending record. reserved is true when the caller
	// now owns the key and must Complete or Release it. Otherwise the stored record is returned, with
	// ErrIdempotencyConflict when its hash differs from requestHash.
	Reserve(ctx context.Context, key, requestHash string) (record *IdempotencyRecord, reserved bool, err error)
	// Complete attaches the placed order to a pending key.
	Complete(ctx context.Context, key string, orderID int64) (*IdempotencyRecord, error)
	// Release drops a pending key so the placement can be retried.
	Release(ctx context.Context, key string) error
}
