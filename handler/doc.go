// Package handler provides typed HTTP handlers for the service's JSON API.
//
// A HandlerFunc receives a Context and a request value already decoded by the
// configured binders, and returns a Response. Wrap adapts it to
// http.HandlerFunc:
//
//	r.Post("/", handler.Wrap(register,
//		handler.WithBinder[handler.Context, RegisterRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, RegisterRequest](handler.NewErrorHandler(log)),
//	))
//
// Responses:
//
//	handler.JSON(v)                      // 200 with v as body
//	handler.JSON(v, WithJSONStatus(201)) // custom status
//	handler.JSONError(429, "...")        // {"error": "..."}
//	handler.Raw(status, ctype, body)     // relay an upstream body verbatim
//
// Errors returned from binding or rendering go to the ErrorHandler. ClassifyError
// turns HTTPError values and validator.ValidationErrors into their status code
// and client message; anything else becomes a generic 500 whose detail is only
// logged.
package handler
