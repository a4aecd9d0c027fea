package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffmuc/social-registration/pkg/httpserver"
	"github.com/ffmuc/social-registration/pkg/logger"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) httpserver.HealthResponse {
	t.Helper()
	var body httpserver.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, httpserver.StatusAlive, decodeHealth(t, rec).Status)
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("ready without checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeHealth(t, rec)
		assert.Equal(t, httpserver.StatusReady, body.Status)
		assert.Empty(t, body.Checks)
	})

	t.Run("reports every check", func(t *testing.T) {
		t.Parallel()

		h := httpserver.ReadinessHandler(logger.Discard(), map[string]httpserver.CheckFunc{
			"redis": func(context.Context) error { return errors.New("connection refused") },
			"store": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeHealth(t, rec)
		assert.Equal(t, httpserver.StatusNotReady, body.Status)
		assert.Equal(t, map[string]string{
			"redis": "connection refused",
			"store": "ok",
		}, body.Checks)
	})

	t.Run("checks see the request context", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		var seen any
		h := httpserver.ReadinessHandler(logger.Discard(), map[string]httpserver.CheckFunc{
			"ctx": func(ctx context.Context) error {
				seen = ctx.Value(key{})
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return nil
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req = req.WithContext(context.WithValue(req.Context(), key{}, "value"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "value", seen)
	})
}
