package shared

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyKeyInFlight is returned when a key is claimed but has no stored result yet
var ErrIdempotencyKeyInFlight = errors.New("idempotency key is being processed")

// IdempotentResult is the response recorded for a completed request
type IdempotentResult struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// IdempotencyStore records request keys so a retried mutation replays the
// first response instead of running twice
type IdempotencyStore interface {
	// Claim marks the key as in flight for ttl.
	// Returns true if the key was newly claimed, false if it already existed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the final result under an already claimed key
	Complete(ctx context.Context, key string, result IdempotentResult, ttl time.Duration) error

	// Result returns the stored result, ErrIdempotencyKeyInFlight when the key
	// is claimed but unfinished, or ErrNotFound when the key is unknown
	Result(ctx context.Context, key string) (*IdempotentResult, error)

	// Release forgets a claimed key so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for request idempotency
type IdempotencyConfig struct {
	// TTL is how long a key and its result are remembered
	TTL time.Duration

	// Enabled determines whether the Idempotency-Key header is honoured
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
