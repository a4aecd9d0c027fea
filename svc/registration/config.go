package registration

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the upstream settings for the registration proxy. APIToken
// may be empty so the service boots; registrations then fail with
// ErrServerMisconfigured until it is set.
type Config struct {
	MastodonURL     string        `env:"MASTODON_URL" envDefault:"https://social.ffmuc.net"`
	APIToken        string        `env:"API_TOKEN"`
	Locale          string        `env:"REGISTRATION_LOCALE" envDefault:"de"`
	ReasonPrefix    string        `env:"REGISTRATION_REASON_PREFIX" envDefault:"Paypal: "`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	BodyLimit       int64         `env:"REQUEST_BODY_LIMIT" envDefault:"65536"`
}

// Validate is called by config.Load.
func (c Config) Validate() error {
	u, err := url.Parse(c.MastodonURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("MASTODON_URL must be an absolute http(s) url")
	}
	if c.BodyLimit <= 0 {
		return errors.New("REQUEST_BODY_LIMIT must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}
