package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/ffmuc/social-registration/pkg/clientip"
)

// maxKeyLength keeps storage keys short for backends such as Redis.
const maxKeyLength = 64

// KeyFunc derives the rate limit key for a request.
type KeyFunc func(*http.Request) string

// ClientIP keys requests by client address. Unattributable requests share
// the clientip.Unknown bucket instead of bypassing the limiter.
func ClientIP(r *http.Request) string {
	return clientip.FromRequest(r)
}

// Composite joins the non-empty keys of several functions.
// Keys longer than maxKeyLength are replaced by a truncated SHA-256 digest.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			hash := sha256.Sum256([]byte(combined))
			return hex.EncodeToString(hash[:16])
		}

		return combined
	}
}

// Static returns a KeyFunc yielding a fixed namespace, for use with Composite.
func Static(namespace string) KeyFunc {
	return func(*http.Request) string { return namespace }
}
