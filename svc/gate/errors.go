package gate

import (
	"errors"
	"fmt"

	"github.com/ffmuc/social-registration/pkg/validator"
)

// User-facing messages shown next to the form.
const (
	MessageSuccess         = "User wurde erfolgreich angelegt!"
	MessageRegisterFailed  = "An error occurred during registration."
	MessageNetworkError    = "Network error. Please try again."
	MessageConfigFailed    = "Failed to load configuration."
	MessageCheckoutPending = "Start filling out the form to load PayPal checkout."
)

var (
	ErrNotInteracted        = errors.New("checkout is not available before the form was used")
	ErrNoPlan               = errors.New("no subscription plan configured")
	ErrInvalidForm          = errors.New("form is invalid")
	ErrCheckoutInProgress   = errors.New("checkout is already in progress")
	ErrNotAwaitingApproval  = errors.New("no checkout is awaiting approval")
	ErrMissingSubscription  = errors.New("approval carries no subscription id")
	ErrSubmitting           = errors.New("registration is already being submitted")
	ErrFinished             = errors.New("registration already succeeded")
	ErrNetwork              = errors.New("registration endpoint unreachable")
	ErrProviderRequired     = errors.New("subscription provider is required")
	ErrRegistrarRequired    = errors.New("registrar is required")
	ErrConfigSourceRequired = errors.New("config source is required")
)

// RegistrationError is a non-success answer from the registration endpoint.
type RegistrationError struct {
	StatusCode int
	Message    string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration rejected with status %d: %s", e.StatusCode, e.Message)
}

// ConfigError is a non-success answer from the public config endpoint.
type ConfigError struct {
	StatusCode int
	Message    string
}

func (e *ConfigError) Error() string {
	if e.StatusCode == 0 {
		return "public config unavailable"
	}
	return fmt.Sprintf("public config returned status %d: %s", e.StatusCode, e.Message)
}

// UserMessage turns an error from the gate into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var regErr *RegistrationError
	if errors.As(err, &regErr) && regErr.Message != "" {
		return regErr.Message
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		if cfgErr.Message != "" {
			return cfgErr.Message
		}
		return MessageConfigFailed
	}

	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		return verrs[0].Message
	}

	switch {
	case errors.Is(err, ErrNetwork):
		return MessageNetworkError
	case errors.Is(err, ErrNotInteracted):
		return MessageCheckoutPending
	default:
		return MessageRegisterFailed
	}
}
