package registration_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/mastodon"
	"github.com/ffmuc/social-registration/pkg/ratelimit"
	"github.com/ffmuc/social-registration/svc/registration"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(t *testing.T, clock *fakeClock) *ratelimit.SlidingWindow {
	t.Helper()
	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	limiter, err := ratelimit.NewSlidingWindow(store, 10, 10*time.Minute, ratelimit.WithClock(clock.Now))
	require.NoError(t, err)
	return limiter
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return nil, ratelimit.ErrStoreUnavailable
}

type fakeAccounts struct {
	mu         sync.Mutex
	configured bool
	err        error
	calls      []mastodon.Account
}

func (f *fakeAccounts) Configured() bool { return f.configured }

func (f *fakeAccounts) CreateAccount(_ context.Context, acc mastodon.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, acc)
	return f.err
}

func (f *fakeAccounts) Calls() []mastodon.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mastodon.Account(nil), f.calls...)
}

type fakeVerifier struct {
	err    error
	ids    []string
	planID string
}

func (f *fakeVerifier) VerifySubscription(_ context.Context, id, planID string) error {
	f.ids = append(f.ids, id)
	f.planID = planID
	return f.err
}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes []string
	targets  []string
}

func (o *fakeObserver) RecordOutcome(outcome string) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func (o *fakeObserver) ObserveUpstream(target, _ string, _ time.Duration) {
	o.mu.Lock()
	o.targets = append(o.targets, target)
	o.mu.Unlock()
}

var errTransport = errors.New("dial tcp: connection refused")

func ptr[T any](v T) *T { return &v }

func validRequest() registration.Request {
	return registration.Request{
		Username:        ptr("alice_1"),
		Email:           ptr("a@b.co"),
		Password:        ptr("password1"),
		ConfirmPassword: ptr("password1"),
		AcceptTerms:     ptr(true),
		SubscriptionID:  ptr("I-SUB123"),
		OrderID:         ptr("O-1"),
	}
}

func testConfig() registration.Config {
	return registration.Config{
		MastodonURL:     "https://social.example.org",
		APIToken:        "token",
		Locale:          "de",
		ReasonPrefix:    "Paypal: ",
		UpstreamTimeout: time.Second,
		BodyLimit:       64 << 10,
	}
}

func post(req registration.Request) registration.Submission {
	return registration.Submission{Method: "POST", ClientKey: "203.0.113.7", Request: req}
}
