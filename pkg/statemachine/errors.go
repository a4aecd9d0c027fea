package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrTerminalState = errors.New("terminal state cannot have outgoing transitions")
	ErrNilListener   = errors.New("listener cannot be nil")
	ErrNoTransition  = errors.New("no transition")
	ErrGuardRejected = errors.New("rejected by guards")
)

// FireError is returned by Fire when the machine could not move. Reason is
// ErrNoTransition or ErrGuardRejected.
type FireError struct {
	From   string
	Event  string
	Reason error
}

func (e *FireError) Error() string {
	return fmt.Sprintf("%v: %s on %s", e.Reason, e.Event, e.From)
}

func (e *FireError) Unwrap() error {
	return e.Reason
}

func fireError(from, event any, reason error) *FireError {
	return &FireError{From: fmt.Sprint(from), Event: fmt.Sprint(event), Reason: reason}
}
