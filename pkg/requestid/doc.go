// Package requestid assigns every HTTP request an identifier.
//
// Middleware accepts a well-formed incoming X-Request-ID (letters, digits,
// dash and underscore, at most 128 characters) or generates a UUID. The id is
// echoed in the response, injected into log records through LoggerExtractor,
// and forwarded to upstream APIs with Propagate so both sides of a failed
// registration can be correlated.
package requestid
