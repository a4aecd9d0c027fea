// Package clientip derives a stable client key from an *http.Request.
//
// The leftmost X-Forwarded-For entry wins, then the transport peer address,
// then the shared Unknown bucket. GetIP never fails: unattributable traffic is
// grouped under Unknown rather than rejected.
//
// Middleware resolves the address once and stores it in the request context;
// handlers read it back with GetIPFromContext or FromRequest.
package clientip
