package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/statemachine"
)

type state string
type event string

const (
	idle    state = "idle"
	running state = "running"
	paused  state = "paused"
	done    state = "done"

	start  event = "start"
	pause  event = "pause"
	resume event = "resume"
	finish event = "finish"
)

func newMachine(t *testing.T, opts ...statemachine.Option[state, event]) *statemachine.Machine[state, event] {
	t.Helper()
	base := []statemachine.Option[state, event]{
		statemachine.WithTerminal[state, event](done),
		statemachine.WithTransition(idle, running, start),
		statemachine.WithTransition(running, paused, pause),
		statemachine.WithTransition(paused, running, resume),
		statemachine.WithTransition(running, done, finish),
	}
	m, err := statemachine.New(idle, append(base, opts...)...)
	require.NoError(t, err)
	return m
}

func TestMachine_Fire(t *testing.T) {
	t.Parallel()

	t.Run("follows transitions", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		m := newMachine(t)

		assert.True(t, m.Is(idle))
		require.NoError(t, m.Fire(ctx, start, nil))
		require.NoError(t, m.Fire(ctx, pause, nil))
		require.NoError(t, m.Fire(ctx, resume, nil))
		require.NoError(t, m.Fire(ctx, finish, nil))
		assert.Equal(t, done, m.Current())
		assert.True(t, m.Terminal())
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)

		err := m.Fire(context.Background(), pause, nil)
		require.ErrorIs(t, err, statemachine.ErrNoTransition)
		var fe *statemachine.FireError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "idle", fe.From)
		assert.Equal(t, "pause", fe.Event)
		assert.Equal(t, "no transition: pause on idle", err.Error())
		assert.Equal(t, idle, m.Current())
	})

	t.Run("terminal state accepts nothing", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		m := newMachine(t)
		require.NoError(t, m.Fire(ctx, start, nil))
		require.NoError(t, m.Fire(ctx, finish, nil))

		assert.False(t, m.CanFire(ctx, start, nil))
		assert.ErrorIs(t, m.Fire(ctx, start, nil), statemachine.ErrNoTransition)
	})
}

func TestMachine_Guards(t *testing.T) {
	t.Parallel()

	allowed := func(_ context.Context, _ state, _ event, data any) bool {
		ok, _ := data.(bool)
		return ok
	}

	t.Run("rejects when guard fails", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, running, start, statemachine.WithGuard(allowed)),
		)

		assert.False(t, m.CanFire(context.Background(), start, false))
		err := m.Fire(context.Background(), start, false)
		assert.ErrorIs(t, err, statemachine.ErrGuardRejected)
		assert.Equal(t, idle, m.Current())

		assert.True(t, m.CanFire(context.Background(), start, true))
		require.NoError(t, m.Fire(context.Background(), start, true))
		assert.Equal(t, running, m.Current())
	})

	t.Run("first passing branch wins", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, running, start, statemachine.WithGuard(allowed)),
			statemachine.WithTransition(idle, paused, start),
		)

		require.NoError(t, m.Fire(context.Background(), start, false))
		assert.Equal(t, paused, m.Current())
	})
}

func TestMachine_Actions(t *testing.T) {
	t.Parallel()

	t.Run("run before state change", func(t *testing.T) {
		t.Parallel()
		var seen []string
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, running, start,
				statemachine.WithAction(func(_ context.Context, from, to state, ev event, _ any) error {
					seen = append(seen, string(from)+">"+string(to)+":"+string(ev))
					return nil
				}),
			),
		)

		require.NoError(t, m.Fire(context.Background(), start, nil))
		assert.Equal(t, []string{"idle>running:start"}, seen)
	})

	t.Run("error aborts transition", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, running, start,
				statemachine.WithAction(func(context.Context, state, state, event, any) error { return boom }),
			),
		)

		err := m.Fire(context.Background(), start, nil)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, idle, m.Current())
	})
}

func TestMachine_Listener(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var observed []state
	m := newMachine(t, statemachine.WithListener(func(_ context.Context, _, to state, _ event) {
		mu.Lock()
		observed = append(observed, to)
		mu.Unlock()
	}))

	ctx := context.Background()
	require.NoError(t, m.Fire(ctx, start, nil))
	require.Error(t, m.Fire(ctx, start, nil))
	require.NoError(t, m.Fire(ctx, finish, nil))

	assert.Equal(t, []state{running, done}, observed)
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	require.NoError(t, m.Fire(context.Background(), start, nil))
	m.Reset()
	assert.Equal(t, idle, m.Current())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	t.Run("transition out of terminal state", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New(idle,
			statemachine.WithTerminal[state, event](done),
			statemachine.WithTransition(done, idle, start),
		)
		assert.ErrorIs(t, err, statemachine.ErrTerminalState)
	})

	t.Run("terminal declared after transitions", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New(idle,
			statemachine.WithTransitions(statemachine.Transition[state, event]{From: done, To: idle, Event: start}),
			statemachine.WithTerminal[state, event](done),
		)
		assert.ErrorIs(t, err, statemachine.ErrTerminalState)
	})

	t.Run("nil listener", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New[state, event](idle, statemachine.WithListener[state, event](nil))
		assert.ErrorIs(t, err, statemachine.ErrNilListener)
	})

	t.Run("must new panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			statemachine.MustNew[state, event](idle, statemachine.WithListener[state, event](nil))
		})
	})
}

func TestMachine_Concurrency(t *testing.T) {
	t.Parallel()

	m := statemachine.MustNew(idle,
		statemachine.WithTransition(idle, running, start),
		statemachine.WithTransition(running, idle, pause),
	)

	ctx := context.Background()
	var wins sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 50 {
		wins.Add(1)
		go func() {
			defer wins.Done()
			if m.Fire(ctx, start, nil) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			_ = m.Current()
		}()
	}
	wins.Wait()

	assert.Equal(t, 1, succeeded, "only one goroutine may leave idle")
	assert.Equal(t, running, m.Current())
}

func BenchmarkMachine_Fire(b *testing.B) {
	ctx := context.Background()
	m := statemachine.MustNew(idle,
		statemachine.WithTransition(idle, running, start),
		statemachine.WithTransition(running, idle, pause),
	)

	for b.Loop() {
		_ = m.Fire(ctx, start, nil)
		_ = m.Fire(ctx, pause, nil)
	}
}
