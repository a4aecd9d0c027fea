// Package binder decodes HTTP request bodies into typed request structs for
// handler.Wrap.
//
// JSON is the only binder the service needs. It enforces a body size limit,
// a JSON content type and a single top-level value, and by default rejects
// unknown fields. Binding is scoped to a set of methods; for any other method
// the binder returns ErrBinderNotApplicable and handler.Wrap moves on, which
// lets the handler answer with its own method check.
//
// Decoded strings are not altered. Passwords in particular must reach the
// upstream API byte for byte.
//
// Errors wrap one of ErrMissingContentType, ErrUnsupportedMediaType,
// ErrBodyTooLarge or ErrFailedToParseJSON.
package binder
