package paypal

import "time"

// Config holds the server-side PayPal REST credentials. The client id is
// the same one handed to the browser; the secret never leaves the server.
type Config struct {
	ClientID            string        `env:"PAYPAL_CLIENT_ID"`
	ClientSecret        string        `env:"PAYPAL_CLIENT_SECRET"`
	APIURL              string        `env:"PAYPAL_API_URL" envDefault:"https://api-m.paypal.com"`
	VerifySubscriptions bool          `env:"PAYPAL_VERIFY_SUBSCRIPTIONS" envDefault:"false"`
	Timeout             time.Duration `env:"PAYPAL_TIMEOUT" envDefault:"10s"`
	ReturnURL           string        `env:"PAYPAL_RETURN_URL"`
	CancelURL           string        `env:"PAYPAL_CANCEL_URL"`
}

// HasCredentials reports whether both halves of the API credential are set.
func (c Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// VerificationEnabled reports whether approvals should be checked against
// the PayPal API before registering.
func (c Config) VerificationEnabled() bool {
	return c.VerifySubscriptions && c.HasCredentials()
}
