package ratelimit

import "errors"

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrKeyRequired       = errors.New("key is required")
	ErrStoreRequired     = errors.New("store is required")
	ErrUnknownStore      = errors.New("unknown rate limit store")
)

// ErrStoreUnavailable wraps backend failures so callers can decide to fail open.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")
