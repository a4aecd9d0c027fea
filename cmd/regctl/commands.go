package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ffmuc/social-registration/pkg/config"
	"github.com/ffmuc/social-registration/pkg/paypal"
	"github.com/ffmuc/social-registration/pkg/validator"
	"github.com/ffmuc/social-registration/svc/gate"
	"github.com/ffmuc/social-registration/svc/registration"
)

var errFormInvalid = errors.New("form is invalid")

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the server's public checkout configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := gate.NewHTTPConfigSource(a.serverURL)
			if err != nil {
				return err
			}
			pc, err := src.PublicConfig(cmd.Context())
			if err != nil {
				return errors.New(gate.UserMessage(err))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pc)
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the sign-up form without contacting any service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := registration.ValidateForm(ff.form(cmd, a.cfg)); err != nil {
				printFieldErrors(cmd, validator.ExtractValidationErrors(err))
				return errFormInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Form is valid.")
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var (
		ff           formFlags
		pollInterval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Subscribe with PayPal and create the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("poll-interval") {
				pollInterval = a.cfg.PollInterval
			}
			if pollInterval <= 0 {
				return errPollInterval
			}
			return a.signup(cmd, ff.form(cmd, a.cfg), pollInterval)
		},
	}
	ff.register(cmd)
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 3*time.Second, "how often to check the subscription status")
	return cmd
}

func (a *app) signup(cmd *cobra.Command, form registration.Form, pollInterval time.Duration) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	src, err := gate.NewHTTPConfigSource(a.serverURL)
	if err != nil {
		return err
	}
	reg, err := gate.NewHTTPRegistrar(a.serverURL)
	if err != nil {
		return err
	}
	pc, err := src.PublicConfig(ctx)
	if err != nil {
		return errors.New(gate.UserMessage(err))
	}

	var ppCfg paypal.Config
	if err := config.Load(&ppCfg); err != nil {
		return err
	}
	if ppCfg.ClientID == "" {
		ppCfg.ClientID = pc.PaymentClientID
	}
	pp, err := paypal.New(ppCfg)
	if err != nil {
		return fmt.Errorf("paypal: %w", err)
	}
	provider := gate.NewPayPalProvider(pp)

	g, err := gate.New(pc.PlanID, provider, reg, gate.WithLogger(a.log))
	if err != nil {
		return err
	}
	if err := g.Interact(ctx, form); err != nil {
		return err
	}

	co, err := g.BeginCheckout(ctx)
	if err != nil {
		if verrs := g.FieldErrors(); len(verrs) > 0 {
			printFieldErrors(cmd, verrs)
			return errFormInvalid
		}
		return errors.New(gate.UserMessage(err))
	}

	fmt.Fprintf(out, "Approve the subscription in your browser:\n  %s\n", co.ApproveURL)
	fmt.Fprintln(out, "Waiting for approval...")

	approval, err := provider.AwaitApproval(ctx, co.SubscriptionID, pollInterval)
	if err != nil {
		switch {
		case errors.Is(err, gate.ErrApprovalDeclined):
			_ = g.Reject(ctx)
		case ctx.Err() != nil:
			_ = g.Cancel(context.WithoutCancel(ctx))
		default:
			_ = g.Fail(ctx, err)
		}
		return err
	}

	if err := g.Approve(ctx, approval); err != nil {
		return errors.New(g.Message())
	}
	fmt.Fprintln(out, g.Message())
	return nil
}

func printFieldErrors(cmd *cobra.Command, verrs validator.ValidationErrors) {
	for _, e := range verrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
	}
}
