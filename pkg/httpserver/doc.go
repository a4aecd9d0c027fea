// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, lifecycle hooks and JSON health probes.
//
// Run binds the listener before serving, so start hooks receive the resolved
// address (useful with ":0" in tests). It blocks until the context is
// cancelled, SIGINT or SIGTERM arrives, or Shutdown is called. Stop hooks run
// after the HTTP server has drained and are the place to close rate limit
// stores or Redis clients.
//
// Usage:
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(context.Context) error { return store.Close() }),
//	)
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, map[string]httpserver.CheckFunc{
//		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
//	}))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run joins listen failures with ErrStart and Shutdown joins drain or hook
// failures with ErrShutdown; use errors.Is to tell them apart.
package httpserver
