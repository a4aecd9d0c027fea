package registration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ffmuc/social-registration/pkg/ratelimit"
	"github.com/ffmuc/social-registration/pkg/validator"
)

var (
	ErrMethodNotAllowed        = errors.New("method not allowed")
	ErrServerMisconfigured     = errors.New("registration server is misconfigured")
	ErrRateLimited             = errors.New("too many registration attempts")
	ErrMalformedBody           = errors.New("malformed request body")
	ErrMissingFields           = errors.New("missing required fields")
	ErrInvalidField            = errors.New("invalid field")
	ErrSubscriptionUnverified  = errors.New("subscription could not be verified")
	ErrVerificationUnavailable = errors.New("subscription verification unavailable")
	ErrUpstreamUnreachable     = errors.New("upstream unreachable")
	ErrUpstreamRejected        = errors.New("upstream rejected registration")
	ErrLimiterRequired         = errors.New("rate limiter is required")
	ErrAccountsRequired        = errors.New("account creator is required")
)

// RateLimitedError is returned when the caller exhausted its attempts.
type RateLimitedError struct {
	Result     *ratelimit.Result
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// MissingFieldsError names the required fields absent from the request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// InvalidFieldError carries the first failed validation rule.
type InvalidFieldError struct {
	Errors validator.ValidationErrors
}

// Field returns the name of the offending field.
func (e *InvalidFieldError) Field() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Field
}

// Message returns the human readable message for the offending field.
func (e *InvalidFieldError) Message() string {
	if len(e.Errors) == 0 {
		return ErrInvalidField.Error()
	}
	return e.Errors[0].Message
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidField, e.Field(), e.Message())
}

func (e *InvalidFieldError) Unwrap() []error { return []error{ErrInvalidField, e.Errors} }

// UpstreamRejectedError is a non-200 answer from the Mastodon instance,
// relayed to the client verbatim.
type UpstreamRejectedError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("%s with status %d", ErrUpstreamRejected, e.StatusCode)
}

func (e *UpstreamRejectedError) Unwrap() error { return ErrUpstreamRejected }
