package redis

import (
	"errors"
	"fmt"
)

var (
	ErrNoURL       = errors.New("redis: no URL configured")
	ErrInvalidURL  = errors.New("redis: invalid URL")
	ErrUnreachable = errors.New("redis: server unreachable")
)

// UnreachableError is returned by Connect when no ping was answered.
type UnreachableError struct {
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("redis: no answer after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() []error {
	return []error{ErrUnreachable, e.Err}
}
