package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Machine is a thread-safe in-memory finite state machine over comparable
// state and event types. Transitions are indexed as [from][event][]Transition;
// when several share a key the first whose guards pass wins.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	terminal    map[S]struct{}
	listeners   []Listener[S, E]
}

func newMachine[S, E comparable](initial S) *Machine[S, E] {
	return &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
		terminal:    make(map[S]struct{}),
	}
}

// Current returns the state the machine is in.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state s.
func (m *Machine[S, E]) Is(s S) bool {
	return m.Current() == s
}

// Terminal reports whether the current state accepts no further events.
func (m *Machine[S, E]) Terminal() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.terminal[m.current]
	return ok
}

func (m *Machine[S, E]) addTransition(t Transition[S, E]) {
	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Fire moves the machine along the first matching transition for event.
// Actions run while the machine is locked, so they must not call back into it.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()

	from := m.current
	if _, ok := m.terminal[from]; ok {
		m.mu.Unlock()
		return fireError(from, event, ErrNoTransition)
	}

	candidates := m.transitions[from][event]
	if len(candidates) == 0 {
		m.mu.Unlock()
		return fireError(from, event, ErrNoTransition)
	}

	t, ok := firstAllowed(ctx, candidates, from, event, data)
	if !ok {
		m.mu.Unlock()
		return fireError(from, event, ErrGuardRejected)
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		l(ctx, from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire(event, data) would find an allowed transition.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.terminal[m.current]; ok {
		return false
	}
	_, ok := firstAllowed(ctx, m.transitions[m.current][event], m.current, event, data)
	return ok
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func firstAllowed[S, E comparable](ctx context.Context, candidates []Transition[S, E], from S, event E, data any) (Transition[S, E], bool) {
	for _, t := range candidates {
		passed := true
		for _, guard := range t.Guards {
			if !guard(ctx, from, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return t, true
		}
	}
	return Transition[S, E]{}, false
}
