package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ffmuc/social-registration/pkg/config"
	"github.com/ffmuc/social-registration/pkg/logger"
	"github.com/ffmuc/social-registration/svc/registration"
)

// cliConfig holds defaults that flags may override.
type cliConfig struct {
	ServerURL    string        `env:"REGCTL_SERVER_URL" envDefault:"http://localhost:3000"`
	Password     string        `env:"REGCTL_PASSWORD"`
	PollInterval time.Duration `env:"REGCTL_POLL_INTERVAL" envDefault:"3s"`
	LogLevel     string        `env:"REGCTL_LOG_LEVEL" envDefault:"warn"`
}

// Validate is called by config.Load.
func (c cliConfig) Validate() error {
	if c.PollInterval <= 0 {
		return errPollInterval
	}
	return nil
}

var errPollInterval = errors.New("poll interval must be positive")

type formFlags struct {
	username        string
	email           string
	password        string
	confirmPassword string
	acceptTerms     bool
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (default $REGCTL_PASSWORD)")
	cmd.Flags().StringVar(&f.confirmPassword, "confirm-password", "", "password confirmation (defaults to --password)")
	cmd.Flags().BoolVar(&f.acceptTerms, "accept-terms", false, "accept the instance terms")
}

func (f *formFlags) form(cmd *cobra.Command, cfg cliConfig) registration.Form {
	password := f.password
	if password == "" {
		password = cfg.Password
	}
	confirm := f.confirmPassword
	if !cmd.Flags().Changed("confirm-password") {
		confirm = password
	}
	return registration.Form{
		Username:        f.username,
		Email:           f.email,
		Password:        password,
		ConfirmPassword: confirm,
		AcceptTerms:     f.acceptTerms,
	}
}

type app struct {
	cfg       cliConfig
	serverURL string
	log       *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "regctl",
		Short: "Sign up for the Mastodon instance from the command line",
		Long: `regctl drives the subscription-gated sign-up flow without a browser:
it validates the form, creates a PayPal subscription, waits for approval
and submits the registration to the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(&a.cfg); err != nil {
				return err
			}
			if a.serverURL == "" {
				a.serverURL = a.cfg.ServerURL
			}
			a.log = logger.New(
				logger.WithFormat(logger.FormatText),
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithLevelName(a.cfg.LogLevel),
			)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "registration server URL (default $REGCTL_SERVER_URL)")

	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newSignupCmd(a))
	return root
}
