package paypal

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials   = errors.New("paypal client id and secret are required")
	ErrInvalidAPIURL        = errors.New("invalid paypal api url")
	ErrUnavailable          = errors.New("paypal api unavailable")
	ErrSubscriptionNotFound = errors.New("paypal subscription not found")
	ErrSubscriptionInactive = errors.New("paypal subscription is not approved or active")
	ErrPlanMismatch         = errors.New("paypal subscription belongs to a different plan")
	ErrMissingApproveLink   = errors.New("paypal subscription has no approve link")
	ErrSubscriptionRequired = errors.New("subscription id is required")
	ErrPlanRequired         = errors.New("plan id is required")
)

// APIError is an unexpected status from the PayPal REST API.
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	DebugID    string `json:"debug_id"`
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("paypal api returned status %d: %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("paypal api returned status %d", e.StatusCode)
}
