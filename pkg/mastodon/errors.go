package mastodon

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("mastodon api token is not configured")
	ErrUnreachable   = errors.New("mastodon instance unreachable")
	ErrInvalidURL    = errors.New("invalid mastodon base url")
)

// APIError is a non-200 answer from the instance. Body holds the response
// verbatim so callers can pass it through to their own clients.
type APIError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mastodon api returned status %d", e.StatusCode)
}

// IsAPIError extracts an *APIError from err.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
