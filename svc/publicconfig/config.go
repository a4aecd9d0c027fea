package publicconfig

// Config reads the browser-safe PayPal identifiers. The NEXT_PUBLIC_ names
// are accepted as fallbacks for deployments migrated from the old frontend.
type Config struct {
	ClientID         string `env:"PAYPAL_CLIENT_ID"`
	FallbackClientID string `env:"NEXT_PUBLIC_PAYPAL_CLIENT_ID"`
	PlanID           string `env:"PAYPAL_PLAN_ID"`
	FallbackPlanID   string `env:"NEXT_PUBLIC_PAYPAL_PLAN_ID"`
}

// PaymentClientID returns the effective PayPal client id.
func (c Config) PaymentClientID() string {
	return firstNonEmpty(c.ClientID, c.FallbackClientID)
}

// EffectivePlanID returns the effective PayPal plan id.
func (c Config) EffectivePlanID() string {
	return firstNonEmpty(c.PlanID, c.FallbackPlanID)
}

// Complete reports whether both identifiers resolved.
func (c Config) Complete() bool {
	return c.PaymentClientID() != "" && c.EffectivePlanID() != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
