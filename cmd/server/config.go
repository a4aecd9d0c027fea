package main

import (
	"github.com/ffmuc/social-registration/pkg/environment"
)

// appConfig holds the process-level settings.
type appConfig struct {
	Env                environment.Environment `env:"APP_ENV" envDefault:"development"`
	Name               string                  `env:"APP_NAME" envDefault:"social-registration"`
	LogLevel           string                  `env:"LOG_LEVEL"`
	CORSAllowedOrigins []string                `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MetricsEnabled     bool                    `env:"METRICS_ENABLED" envDefault:"true"`
}
