package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow limits attempts per key. A window opens with the first attempt
// and stays open until more than window has elapsed; the next attempt after
// that starts a fresh window with a zero count.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    Clock
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(sw *SlidingWindow) {
		if clock != nil {
			sw.now = clock
		}
	}
}

// NewSlidingWindow creates a limiter allowing limit attempts per window for each key.
func NewSlidingWindow(store Store, limit int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	sw := &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(sw)
	}

	return sw, nil
}

// Allow records an attempt for key and reports whether it stays within the limit.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, start, err := sw.store.Hit(ctx, key, sw.now(), sw.window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   int(count) <= sw.limit,
		Limit:     sw.limit,
		Count:     int(count),
		Remaining: max(0, sw.limit-int(count)),
		ResetAt:   start.Add(sw.window),
	}, nil
}

// IsLimited records an attempt for key and reports whether the key is over the limit.
func (sw *SlidingWindow) IsLimited(ctx context.Context, key string) (bool, error) {
	res, err := sw.Allow(ctx, key)
	if err != nil {
		return false, err
	}
	return !res.Allowed, nil
}

// Reset clears the counter for key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Delete(ctx, key)
}

// Limit returns the configured maximum attempts per window.
func (sw *SlidingWindow) Limit() int { return sw.limit }

// Window returns the configured window duration.
func (sw *SlidingWindow) Window() time.Duration { return sw.window }
