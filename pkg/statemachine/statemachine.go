package statemachine

import "context"

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects during a transition. Returning an error keeps
// the machine in its current state.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Listener is notified after every committed transition.
type Listener[S, E comparable] func(ctx context.Context, from, to S, event E)

// Transition defines a state change triggered by an event, with optional guards and actions.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // all must pass
	Actions []Action[S, E] // executed in order before the state changes
}
