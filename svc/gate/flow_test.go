package gate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/ratelimit"
	"github.com/ffmuc/social-registration/svc/gate"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

// newSignupServer serves both API endpoints in front of a fake Mastodon
// instance and returns the number of account creations it saw.
func newSignupServer(t *testing.T, token string) (string, *atomic.Int32) {
	t.Helper()

	var created atomic.Int32
	mastodon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Paypal: I-SUB", r.PostForm.Get("reason"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"x"}`))
	}))
	t.Cleanup(mastodon.Close)

	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	limiter, err := ratelimit.NewSlidingWindow(store, 10, 10*time.Minute)
	require.NoError(t, err)

	svc, err := registration.NewFromConfig(registration.Config{
		MastodonURL:     mastodon.URL,
		APIToken:        token,
		Locale:          "de",
		ReasonPrefix:    "Paypal: ",
		UpstreamTimeout: 5 * time.Second,
		BodyLimit:       1 << 16,
	}, limiter)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/register", svc.Handle())
	r.Mount("/api/public-config", publicconfig.New(publicconfig.Config{ClientID: "cid", PlanID: planID}, nil).Handle())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL, &created
}

func newHTTPGate(t *testing.T, baseURL string, provider gate.Provider) *gate.Gate {
	t.Helper()
	src, err := gate.NewHTTPConfigSource(baseURL)
	require.NoError(t, err)
	reg, err := gate.NewHTTPRegistrar(baseURL)
	require.NoError(t, err)

	g, err := gate.Load(context.Background(), src, provider, reg)
	require.NoError(t, err)
	return g
}

func TestFlow_EndToEnd(t *testing.T) {
	t.Parallel()

	baseURL, created := newSignupServer(t, "token")
	provider := &fakeProvider{}
	g := newHTTPGate(t, baseURL, provider)
	ctx := context.Background()

	require.NoError(t, g.Interact(ctx, validForm()))
	co, err := g.BeginCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{planID}, provider.plans)

	require.NoError(t, g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID, OrderID: "O-1"}))
	assert.Equal(t, gate.StateSucceeded, g.State())
	assert.Equal(t, gate.MessageSuccess, g.Message())
	assert.EqualValues(t, 1, created.Load())
}

func TestFlow_ServerMisconfigured(t *testing.T) {
	t.Parallel()

	baseURL, created := newSignupServer(t, "")
	g := newHTTPGate(t, baseURL, &fakeProvider{})
	ctx := context.Background()

	require.NoError(t, g.Interact(ctx, validForm()))
	co, err := g.BeginCheckout(ctx)
	require.NoError(t, err)

	err = g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID})
	require.Error(t, err)
	assert.Equal(t, gate.StateFormActive, g.State())
	assert.Equal(t, "Server is not configured for registrations", g.Message())
	assert.Zero(t, created.Load())
}
