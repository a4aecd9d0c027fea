// Package metrics exposes Prometheus collectors for the registration service:
// HTTP request counters and latencies per chi route, registration outcomes,
// and latency of calls to Mastodon and PayPal.
package metrics
