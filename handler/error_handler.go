package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ffmuc/social-registration/pkg/binder"
	"github.com/ffmuc/social-registration/pkg/logger"
	"github.com/ffmuc/social-registration/pkg/validator"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Message    string
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ClassifyError maps err to a status code and a client-safe message.
// Unknown errors become a generic 500 so internal detail never reaches the client.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    ErrInternalServerError.Message,
	}

	var httpErr HTTPError
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
	case errors.As(err, &verrs) && len(verrs) > 0:
		info.StatusCode = http.StatusBadRequest
		info.Message = verrs[0].Message
	case errors.Is(err, binder.ErrBodyTooLarge),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrUnsupportedMediaType):
		info.StatusCode = http.StatusBadRequest
		info.Message = ErrBadRequest.Message
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// NewErrorHandler returns an ErrorHandler that logs err and renders {"error": message}.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		info := ClassifyError(err)
		r := ctx.Request()

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(info.StatusCode, info.Message).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
