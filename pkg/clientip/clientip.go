package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is the shared key for requests whose origin cannot be attributed.
const Unknown = "unknown"

// ForwardedForHeader carries the proxy chain; the leftmost entry is the originating client.
const ForwardedForHeader = "X-Forwarded-For"

// GetIP returns the client address for r.
// Resolution order:
//  1. leftmost non-empty entry of X-Forwarded-For
//  2. host part of RemoteAddr
//  3. Unknown
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get(ForwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := normalize(first); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr without a port
			host = r.RemoteAddr
		}
		if ip := normalize(host); ip != "" {
			return ip
		}
	}

	return Unknown
}

// normalize trims the value and canonicalizes it when it parses as an IP.
// Values that are not IPs are kept as-is so distinct proxies still map to distinct keys.
func normalize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if ip := net.ParseIP(strings.Trim(value, "[]")); ip != nil {
		return ip.String()
	}
	return value
}
