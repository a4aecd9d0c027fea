package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ffmuc/social-registration/pkg/clientip"
	"github.com/ffmuc/social-registration/pkg/ratelimit"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	t.Run("forwarded header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		assert.Equal(t, "203.0.113.9", ratelimit.ClientIP(req))
	})

	t.Run("unknown bucket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ""
		assert.Equal(t, clientip.Unknown, ratelimit.ClientIP(req))
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	key := ratelimit.Composite(ratelimit.Static("register"), ratelimit.ClientIP)(req)
	assert.Equal(t, "register:192.0.2.1", key)

	empty := ratelimit.Composite(ratelimit.Static(""))(req)
	assert.Empty(t, empty)

	long := ratelimit.Composite(ratelimit.Static(strings.Repeat("x", 80)))(req)
	assert.Len(t, long, 32)
}
