package ratelimit

import (
	"context"
	"time"
)

// Result describes the state of a key after an attempt was recorded.
type Result struct {
	// Allowed is false once the attempt count exceeds Limit.
	Allowed bool

	// Limit is the maximum number of attempts allowed in one window.
	Limit int

	// Count is the number of attempts recorded in the current window, this one included.
	Count int

	// Remaining is the number of attempts left before the key is limited.
	Remaining int

	// ResetAt is when the current window elapses.
	ResetAt time.Time
}

// RetryAfter returns how long the caller should wait, measured from now.
// Returns 0 if the attempt was allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	return max(0, r.ResetAt.Sub(now))
}

// Store persists one counter per key.
type Store interface {
	// Hit records one attempt for key at now. When the elapsed time since the
	// stored window start exceeds window, the counter restarts at now.
	// Implementations must apply the read-reset-increment sequence atomically.
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (count int64, windowStart time.Time, err error)

	// Delete forgets the counter for key.
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
