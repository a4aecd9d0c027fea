package gate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/paypal"
	"github.com/ffmuc/social-registration/svc/gate"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

const planID = "P-TEST"

type fakeProvider struct {
	mu    sync.Mutex
	err   error
	plans []string
}

func (p *fakeProvider) CreateSubscription(_ context.Context, plan string) (gate.Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plans = append(p.plans, plan)
	if p.err != nil {
		return gate.Checkout{}, p.err
	}
	return gate.Checkout{SubscriptionID: "I-SUB", ApproveURL: "https://paypal.test/approve/I-SUB"}, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plans)
}

type fakeRegistrar struct {
	mu       sync.Mutex
	err      error
	entered  chan struct{}
	release  chan struct{}
	requests []registration.Request
}

func (r *fakeRegistrar) Register(_ context.Context, req registration.Request) error {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return r.err
}

func (r *fakeRegistrar) calls() []registration.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]registration.Request(nil), r.requests...)
}

func validForm() registration.Form {
	return registration.Form{
		Username:        "alice_1",
		Email:           "alice@example.org",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
		AcceptTerms:     true,
	}
}

func newGate(t *testing.T, provider *fakeProvider, registrar *fakeRegistrar) *gate.Gate {
	t.Helper()
	g, err := gate.New(planID, provider, registrar)
	require.NoError(t, err)
	return g
}

// awaitingApproval walks a fresh gate to StateAwaitingApproval.
func awaitingApproval(t *testing.T, g *gate.Gate) gate.Checkout {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, g.Interact(ctx, validForm()))
	co, err := g.BeginCheckout(ctx)
	require.NoError(t, err)
	require.Equal(t, gate.StateAwaitingApproval, g.State())
	return co
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := gate.New(planID, nil, &fakeRegistrar{})
	assert.ErrorIs(t, err, gate.ErrProviderRequired)

	_, err = gate.New(planID, &fakeProvider{}, nil)
	assert.ErrorIs(t, err, gate.ErrRegistrarRequired)

	g, err := gate.New(planID, &fakeProvider{}, &fakeRegistrar{})
	require.NoError(t, err)
	assert.Equal(t, gate.StateIdle, g.State())
	assert.Empty(t, g.Message())
}

func TestGate_CheckoutNotOfferedBeforeInteraction(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	g := newGate(t, provider, &fakeRegistrar{})

	assert.False(t, g.CheckoutReady())
	_, err := g.BeginCheckout(context.Background())
	assert.ErrorIs(t, err, gate.ErrNotInteracted)
	assert.Equal(t, gate.MessageCheckoutPending, gate.UserMessage(err))
	assert.Zero(t, provider.calls())

	require.NoError(t, g.Interact(context.Background(), registration.Form{Username: "a"}))
	assert.Equal(t, gate.StateFormActive, g.State())
	assert.True(t, g.CheckoutReady())

	require.NoError(t, g.Interact(context.Background(), validForm()))
	assert.Equal(t, gate.StateFormActive, g.State())
}

func TestGate_NoPlan(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	g, err := gate.New("", provider, &fakeRegistrar{})
	require.NoError(t, err)

	require.NoError(t, g.Interact(context.Background(), validForm()))
	assert.False(t, g.CheckoutReady())

	_, err = g.BeginCheckout(context.Background())
	assert.ErrorIs(t, err, gate.ErrNoPlan)
	assert.Zero(t, provider.calls())
}

func TestGate_InvalidFormNeverReachesProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	registrar := &fakeRegistrar{}
	g := newGate(t, provider, registrar)
	ctx := context.Background()

	form := validForm()
	form.AcceptTerms = false
	form.ConfirmPassword = "different"
	require.NoError(t, g.Interact(ctx, form))

	_, err := g.BeginCheckout(ctx)
	require.ErrorIs(t, err, gate.ErrInvalidForm)

	assert.Equal(t, gate.StateFormActive, g.State())
	assert.Equal(t, map[string]string{
		"confirmPassword": "Confirm Password does not match",
		"acceptTerms":     "Accept Terms is required",
	}, g.FieldErrors().Map())
	assert.Zero(t, provider.calls())
	assert.Empty(t, registrar.calls())

	_, ok := g.Checkout()
	assert.False(t, ok)

	require.NoError(t, g.Interact(ctx, validForm()))
	_, err = g.BeginCheckout(ctx)
	require.NoError(t, err)
	assert.Empty(t, g.FieldErrors())
}

func TestGate_BeginCheckout(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	g := newGate(t, provider, &fakeRegistrar{})

	co := awaitingApproval(t, g)
	assert.Equal(t, "I-SUB", co.SubscriptionID)
	assert.Equal(t, []string{planID}, provider.plans)

	got, ok := g.Checkout()
	assert.True(t, ok)
	assert.Equal(t, co, got)

	_, err := g.BeginCheckout(context.Background())
	assert.ErrorIs(t, err, gate.ErrCheckoutInProgress)
	assert.Equal(t, 1, provider.calls())
}

func TestGate_ProviderError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: paypal.ErrUnavailable}
	g := newGate(t, provider, &fakeRegistrar{})
	ctx := context.Background()

	require.NoError(t, g.Interact(ctx, validForm()))
	_, err := g.BeginCheckout(ctx)
	require.ErrorIs(t, err, paypal.ErrUnavailable)

	assert.Equal(t, gate.StateFormActive, g.State())
	assert.Equal(t, gate.MessageRegisterFailed, g.Message())
}

func TestGate_Approve(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		registrar := &fakeRegistrar{}
		g := newGate(t, &fakeProvider{}, registrar)
		co := awaitingApproval(t, g)
		ctx := context.Background()

		require.NoError(t, g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID, OrderID: "O-1"}))

		assert.Equal(t, gate.StateSucceeded, g.State())
		assert.Equal(t, gate.MessageSuccess, g.Message())
		assert.False(t, g.CheckoutReady())

		reqs := registrar.calls()
		require.Len(t, reqs, 1)
		assert.Equal(t, "alice_1", *reqs[0].Username)
		assert.Equal(t, "alice@example.org", *reqs[0].Email)
		assert.Equal(t, "I-SUB", *reqs[0].SubscriptionID)
		assert.Equal(t, "O-1", *reqs[0].OrderID)
		assert.True(t, *reqs[0].AcceptTerms)

		assert.ErrorIs(t, g.Interact(ctx, validForm()), gate.ErrFinished)
		assert.ErrorIs(t, g.Approve(ctx, gate.Approval{SubscriptionID: "I-SUB"}), gate.ErrFinished)
		_, err := g.BeginCheckout(ctx)
		assert.ErrorIs(t, err, gate.ErrFinished)
		assert.Len(t, registrar.calls(), 1)
	})

	t.Run("without subscription id", func(t *testing.T) {
		t.Parallel()

		registrar := &fakeRegistrar{}
		g := newGate(t, &fakeProvider{}, registrar)
		awaitingApproval(t, g)

		err := g.Approve(context.Background(), gate.Approval{OrderID: "O-1"})
		assert.ErrorIs(t, err, gate.ErrMissingSubscription)
		assert.Equal(t, gate.StateAwaitingApproval, g.State())
		assert.Empty(t, registrar.calls())
	})

	t.Run("before checkout", func(t *testing.T) {
		t.Parallel()

		registrar := &fakeRegistrar{}
		g := newGate(t, &fakeProvider{}, registrar)
		require.NoError(t, g.Interact(context.Background(), validForm()))

		err := g.Approve(context.Background(), gate.Approval{SubscriptionID: "I-SUB"})
		assert.ErrorIs(t, err, gate.ErrNotAwaitingApproval)
		assert.Equal(t, gate.StateFormActive, g.State())
		assert.Empty(t, registrar.calls())
	})

	t.Run("server rejects", func(t *testing.T) {
		t.Parallel()

		registrar := &fakeRegistrar{err: &gate.RegistrationError{StatusCode: 422, Message: "Username is already taken"}}
		g := newGate(t, &fakeProvider{}, registrar)
		co := awaitingApproval(t, g)

		err := g.Approve(context.Background(), gate.Approval{SubscriptionID: co.SubscriptionID})
		require.Error(t, err)
		assert.Equal(t, gate.StateFormActive, g.State())
		assert.Equal(t, "Username is already taken", g.Message())
		assert.False(t, g.Submitting())

		_, ok := g.Checkout()
		assert.False(t, ok)

		registrar.mu.Lock()
		registrar.err = nil
		registrar.mu.Unlock()

		co = awaitingApproval(t, g)
		require.NoError(t, g.Approve(context.Background(), gate.Approval{SubscriptionID: co.SubscriptionID}))
		assert.Equal(t, gate.StateSucceeded, g.State())
	})

	t.Run("network error", func(t *testing.T) {
		t.Parallel()

		registrar := &fakeRegistrar{err: errors.Join(gate.ErrNetwork, errors.New("dial tcp: refused"))}
		g := newGate(t, &fakeProvider{}, registrar)
		co := awaitingApproval(t, g)

		err := g.Approve(context.Background(), gate.Approval{SubscriptionID: co.SubscriptionID})
		require.ErrorIs(t, err, gate.ErrNetwork)
		assert.Equal(t, gate.StateFormActive, g.State())
		assert.Equal(t, gate.MessageNetworkError, g.Message())
	})
}

func TestGate_ApproveIsSingleFlight(t *testing.T) {
	t.Parallel()

	registrar := &fakeRegistrar{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	g := newGate(t, &fakeProvider{}, registrar)
	co := awaitingApproval(t, g)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID})
	}()

	<-registrar.entered
	assert.True(t, g.Submitting())
	assert.Equal(t, gate.StateRegistering, g.State())
	assert.ErrorIs(t, g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID}), gate.ErrSubmitting)

	close(registrar.release)
	require.NoError(t, <-done)
	assert.False(t, g.Submitting())
	assert.Len(t, registrar.calls(), 1)
}

func TestGate_LeaveApproval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		leave   func(*gate.Gate) error
		message string
	}{
		{"cancel", func(g *gate.Gate) error { return g.Cancel(context.Background()) }, ""},
		{"reject", func(g *gate.Gate) error { return g.Reject(context.Background()) }, ""},
		{
			"provider error",
			func(g *gate.Gate) error { return g.Fail(context.Background(), errors.New("popup closed")) },
			gate.MessageRegisterFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registrar := &fakeRegistrar{}
			g := newGate(t, &fakeProvider{}, registrar)
			awaitingApproval(t, g)

			require.NoError(t, tt.leave(g))
			assert.Equal(t, gate.StateFormActive, g.State())
			assert.Equal(t, tt.message, g.Message())
			assert.Empty(t, registrar.calls())

			assert.ErrorIs(t, tt.leave(g), gate.ErrNotAwaitingApproval)
		})
	}
}

type fakeConfigSource struct {
	cfg publicconfig.PublicConfig
	err error
}

func (s fakeConfigSource) PublicConfig(context.Context) (publicconfig.PublicConfig, error) {
	return s.cfg, s.err
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := gate.Load(ctx, nil, &fakeProvider{}, &fakeRegistrar{})
	assert.ErrorIs(t, err, gate.ErrConfigSourceRequired)

	cfgErr := &gate.ConfigError{StatusCode: 500, Message: publicconfig.MissingConfigMessage}
	_, err = gate.Load(ctx, fakeConfigSource{err: cfgErr}, &fakeProvider{}, &fakeRegistrar{})
	require.Error(t, err)
	assert.Equal(t, publicconfig.MissingConfigMessage, gate.UserMessage(err))

	provider := &fakeProvider{}
	g, err := gate.Load(ctx, fakeConfigSource{cfg: publicconfig.PublicConfig{PaymentClientID: "cid", PlanID: "P-LOADED"}}, provider, &fakeRegistrar{})
	require.NoError(t, err)
	require.NoError(t, g.Interact(ctx, validForm()))
	_, err = g.BeginCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"P-LOADED"}, provider.plans)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, gate.UserMessage(nil))
	assert.Equal(t, gate.MessageRegisterFailed, gate.UserMessage(errors.New("boom")))
	assert.Equal(t, gate.MessageNetworkError, gate.UserMessage(errors.Join(gate.ErrNetwork, errors.New("eof"))))
	assert.Equal(t, "Too many", gate.UserMessage(&gate.RegistrationError{StatusCode: 429, Message: "Too many"}))
	assert.Equal(t, gate.MessageConfigFailed, gate.UserMessage(&gate.ConfigError{}))
	assert.Equal(t, "Username is required",
		gate.UserMessage(registration.ValidateForm(registration.Form{Email: "a@b.co", Password: "12345678", ConfirmPassword: "12345678", AcceptTerms: true})))
}
