package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

// SetHeaders writes the X-RateLimit-* headers for result, plus Retry-After when the attempt was denied.
func SetHeaders(w http.ResponseWriter, result *Result, now time.Time) {
	if result == nil {
		return
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if !result.Allowed {
		retryAfter := max(1, int(math.Ceil(result.RetryAfter(now).Seconds())))
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
}
