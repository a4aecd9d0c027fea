// Package logger builds *slog.Logger instances with consistent attribute names.
//
// New applies functional options and wraps the concrete slog handler in a
// LogHandlerDecorator, which runs the registered ContextExtractor callbacks on
// every record. The service registers extractors for the request id and the
// environment so handlers only need to pass their request context:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "social-registration"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "account created", logger.Username(name))
//
// Attribute helpers in attr.go keep key names uniform. Middleware emits one
// access log record per request.
package logger
