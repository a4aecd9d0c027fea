package gate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/requestid"
	"github.com/ffmuc/social-registration/svc/gate"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

func TestNewHTTPRegistrar_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://example.org", "://bad", "http://"} {
		_, err := gate.NewHTTPRegistrar(raw)
		assert.ErrorIs(t, err, gate.ErrInvalidBaseURL, raw)

		_, err = gate.NewHTTPConfigSource(raw)
		assert.ErrorIs(t, err, gate.ErrInvalidBaseURL, raw)
	}
}

func TestHTTPRegistrar_Register(t *testing.T) {
	t.Parallel()

	t.Run("posts the wire request", func(t *testing.T) {
		t.Parallel()

		var (
			got       map[string]any
			gotReqID  string
			gotCType  string
			gotMethod string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/register", r.URL.Path)
			gotMethod = r.Method
			gotCType = r.Header.Get("Content-Type")
			gotReqID = r.Header.Get(requestid.Header)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		t.Cleanup(srv.Close)

		reg, err := gate.NewHTTPRegistrar(srv.URL + "/")
		require.NoError(t, err)

		ctx := requestid.WithContext(context.Background(), "req-123")
		require.NoError(t, reg.Register(ctx, registration.NewRequest(validForm(), "I-SUB", "O-1")))

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotCType)
		assert.Equal(t, "req-123", gotReqID)
		assert.Equal(t, map[string]any{
			"username":        "alice_1",
			"email":           "alice@example.org",
			"password":        "correct horse",
			"confirmPassword": "correct horse",
			"acceptTerms":     true,
			"subscriptionId":  "I-SUB",
			"orderId":         "O-1",
		}, got)
	})

	t.Run("error body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many registration attempts. Please try again later."}`))
		}))
		t.Cleanup(srv.Close)

		reg, err := gate.NewHTTPRegistrar(srv.URL)
		require.NoError(t, err)

		err = reg.Register(context.Background(), registration.NewRequest(validForm(), "I-SUB", ""))
		var regErr *gate.RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, http.StatusTooManyRequests, regErr.StatusCode)
		assert.Equal(t, "Too many registration attempts. Please try again later.", gate.UserMessage(err))
	})

	t.Run("body without error field", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}))
		t.Cleanup(srv.Close)

		reg, err := gate.NewHTTPRegistrar(srv.URL)
		require.NoError(t, err)

		err = reg.Register(context.Background(), registration.NewRequest(validForm(), "I-SUB", ""))
		require.Error(t, err)
		assert.Equal(t, gate.MessageRegisterFailed, gate.UserMessage(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		reg, err := gate.NewHTTPRegistrar(url)
		require.NoError(t, err)

		err = reg.Register(context.Background(), registration.NewRequest(validForm(), "I-SUB", ""))
		require.ErrorIs(t, err, gate.ErrNetwork)
		assert.Equal(t, gate.MessageNetworkError, gate.UserMessage(err))
	})
}

func TestHTTPConfigSource_PublicConfig(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, cfg publicconfig.Config) *gate.HTTPConfigSource {
		t.Helper()
		r := chi.NewRouter()
		r.Mount("/api/public-config", publicconfig.New(cfg, nil).Handle())
		srv := httptest.NewServer(r)
		t.Cleanup(srv.Close)

		src, err := gate.NewHTTPConfigSource(srv.URL)
		require.NoError(t, err)
		return src
	}

	t.Run("configured", func(t *testing.T) {
		t.Parallel()

		src := serve(t, publicconfig.Config{ClientID: "cid", PlanID: "P-1"})
		pc, err := src.PublicConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cid", pc.PaymentClientID)
		assert.Equal(t, "P-1", pc.PlanID)
	})

	t.Run("missing configuration", func(t *testing.T) {
		t.Parallel()

		src := serve(t, publicconfig.Config{})
		_, err := src.PublicConfig(context.Background())

		var cfgErr *gate.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, http.StatusInternalServerError, cfgErr.StatusCode)
		assert.Equal(t, publicconfig.MissingConfigMessage, gate.UserMessage(err))
	})

	t.Run("legacy keys only", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"paypalClientId":"old-cid","paypalPlanId":"P-OLD"}`))
		}))
		t.Cleanup(srv.Close)

		src, err := gate.NewHTTPConfigSource(srv.URL)
		require.NoError(t, err)

		pc, err := src.PublicConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "old-cid", pc.PaymentClientID)
		assert.Equal(t, "P-OLD", pc.PlanID)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		src, err := gate.NewHTTPConfigSource(url)
		require.NoError(t, err)

		_, err = src.PublicConfig(context.Background())
		require.Error(t, err)
		assert.Equal(t, gate.MessageConfigFailed, gate.UserMessage(err))
		assert.False(t, errors.Is(err, gate.ErrNetwork))
	})
}
