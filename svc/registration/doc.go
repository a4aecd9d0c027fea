// Package registration is the server side of the subscription-gated sign-up
// flow. It owns the form rules shared with the interactive client, and the
// proxy that turns an approved submission into a Mastodon account.
//
// Register checks, in order: the HTTP method, that an upstream credential is
// configured, the per-client rate limit, required fields, the field rules,
// optionally the PayPal subscription, and only then calls the instance.
// Every rejection is a typed error; Handle maps them to JSON responses of the
// form {"error": "..."} and relays upstream rejections verbatim.
//
//	limiter, _ := ratelimit.NewFromConfig(rlCfg, ratelimit.NewMemoryStore())
//	svc, err := registration.NewFromConfig(cfg, limiter,
//		registration.WithLogger(log),
//		registration.WithObserver(recorder),
//	)
//	r.Mount("/api/register", svc.Handle())
package registration
