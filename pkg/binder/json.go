package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20

type jsonConfig struct {
	maxSize       int64
	methods       []string
	strict        bool
	requireHeader bool
}

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

// WithMaxSize caps the accepted body size in bytes.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithMethods restricts binding to the given methods. Requests with any other
// method yield ErrBinderNotApplicable so the handler can reject them itself.
func WithMethods(methods ...string) JSONOption {
	return func(c *jsonConfig) {
		if len(methods) > 0 {
			c.methods = methods
		}
	}
}

// AllowUnknownFields ignores JSON keys that have no matching struct field.
func AllowUnknownFields() JSONOption {
	return func(c *jsonConfig) {
		c.strict = false
	}
}

// AllowMissingContentType accepts bodies sent without a Content-Type header.
func AllowMissingContentType() JSONOption {
	return func(c *jsonConfig) {
		c.requireHeader = false
	}
}

// JSON creates a binder decoding the request body into v.
// String values are stored exactly as sent; callers that need trimming or
// sanitizing do it themselves, since secrets must reach the consumer unchanged.
//
//	http.HandleFunc("/users", handler.Wrap(h,
//		handler.WithBinder[handler.Context, CreateUserRequest](binder.JSON()),
//	))
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{
		maxSize:       DefaultMaxJSONSize,
		methods:       []string{http.MethodPost, http.MethodPut, http.MethodPatch},
		strict:        true,
		requireHeader: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if !slices.Contains(cfg.methods, r.Method) {
			return ErrBinderNotApplicable
		}

		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		if err := checkContentType(r.Header.Get("Content-Type"), cfg.requireHeader); err != nil {
			return err
		}

		if r.Body == nil {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %w", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize)
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		if cfg.strict {
			decoder.DisallowUnknownFields()
		}

		if err := decoder.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}

		return nil
	}
}

func checkContentType(contentType string, required bool) error {
	if contentType == "" {
		if required {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedMediaType, err)
	}
	if mediaType != "application/json" {
		return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
	}
	return nil
}
