// Package statemachine implements a small generic finite state machine.
//
// States and events are any comparable types, typically string-based
// constants owned by the calling package:
//
//	type State string
//	type Event string
//
//	m := statemachine.MustNew[State, Event](Idle,
//		statemachine.WithTerminal[State, Event](Done),
//		statemachine.WithTransition(Idle, Running, Start),
//		statemachine.WithTransition(Running, Done, Finish,
//			statemachine.WithGuard(func(ctx context.Context, from State, ev Event, data any) bool {
//				return data != nil
//			}),
//		),
//	)
//
//	err := m.Fire(ctx, Start, nil)
//
// Guards veto a transition, actions run before the state changes and may
// abort it, listeners observe committed transitions. Fire holds the machine
// lock while actions run; listeners are called after it is released.
//
// Fire errors are *FireError values matching ErrNoTransition or
// ErrGuardRejected with errors.Is.
package statemachine
