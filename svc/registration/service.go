package registration

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ffmuc/social-registration/pkg/clientip"
	"github.com/ffmuc/social-registration/pkg/logger"
	"github.com/ffmuc/social-registration/pkg/mastodon"
	"github.com/ffmuc/social-registration/pkg/paypal"
	"github.com/ffmuc/social-registration/pkg/ratelimit"
	"github.com/ffmuc/social-registration/pkg/validator"
)

// Outcome labels used for logs and metrics.
const (
	OutcomeCreated                 = "created"
	OutcomeMethodNotAllowed        = "method_not_allowed"
	OutcomeMisconfigured           = "misconfigured"
	OutcomeRateLimited             = "rate_limited"
	OutcomeMalformedBody           = "malformed_body"
	OutcomeMissingFields           = "missing_fields"
	OutcomeInvalidField            = "invalid_field"
	OutcomeSubscriptionUnverified  = "subscription_unverified"
	OutcomeVerificationUnavailable = "verification_unavailable"
	OutcomeUpstreamUnreachable     = "upstream_unreachable"
	OutcomeUpstreamRejected        = "upstream_rejected"
)

// Limiter records an attempt for key and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// AccountCreator creates accounts on the upstream instance.
type AccountCreator interface {
	Configured() bool
	CreateAccount(ctx context.Context, acc mastodon.Account) error
}

// SubscriptionVerifier confirms a subscription approval with the payment provider.
type SubscriptionVerifier interface {
	VerifySubscription(ctx context.Context, subscriptionID, planID string) error
}

// Observer receives outcome and latency signals, typically a metrics recorder.
type Observer interface {
	RecordOutcome(outcome string)
	ObserveUpstream(target, result string, d time.Duration)
}

// Submission is one registration attempt as seen by the service.
type Submission struct {
	Method    string
	ClientKey string
	Request   Request
}

// Service is the registration proxy: it re-validates a submission, applies
// the rate limit and forwards it to the Mastodon instance.
type Service struct {
	cfg      Config
	limiter  Limiter
	accounts AccountCreator
	verifier SubscriptionVerifier
	planID   string
	observer Observer
	log      *slog.Logger
	keyFunc  ratelimit.KeyFunc
	clock    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithSubscriptionVerifier enables checking every approval against the
// payment provider before the upstream call.
func WithSubscriptionVerifier(v SubscriptionVerifier, planID string) Option {
	return func(s *Service) {
		s.verifier = v
		s.planID = planID
	}
}

// WithKeyFunc overrides how the HTTP handler derives the rate limit key.
func WithKeyFunc(fn ratelimit.KeyFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.keyFunc = fn
		}
	}
}

// WithClock sets the time source used for rate limit headers.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates a Service. limiter and accounts are required.
func New(cfg Config, limiter Limiter, accounts AccountCreator, opts ...Option) (*Service, error) {
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if accounts == nil {
		return nil, ErrAccountsRequired
	}

	s := &Service{
		cfg:      cfg,
		limiter:  limiter,
		accounts: accounts,
		log:      logger.Discard(),
		keyFunc:  ratelimit.ClientIP,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromConfig creates a Service talking to cfg.MastodonURL.
func NewFromConfig(cfg Config, limiter Limiter, opts ...Option) (*Service, error) {
	client, err := mastodon.New(cfg.MastodonURL, cfg.APIToken, mastodon.WithTimeout(cfg.UpstreamTimeout))
	if err != nil {
		return nil, err
	}
	return New(cfg, limiter, client, opts...)
}

// Register runs the proxy pipeline. Each step is a precondition for the next
// and no network call happens before all of them passed:
//
//  1. method is POST
//  2. upstream credential configured
//  3. caller not rate limited
//  4. required fields present
//  5. field rules hold
//  6. optional subscription verification
//  7. upstream account creation
//
// Identical submissions are not deduplicated.
func (s *Service) Register(ctx context.Context, sub Submission) error {
	err := s.admit(ctx, sub)
	if err == nil {
		err = s.register(ctx, sub)
	}
	return s.finish(ctx, sub, err)
}

// RejectBody handles a submission whose body could not be decoded. Steps 1
// to 3 of Register still run, so an unreadable body counts as an attempt and
// a missing credential is reported before the body is.
func (s *Service) RejectBody(ctx context.Context, sub Submission, cause error) error {
	err := s.admit(ctx, sub)
	if err == nil {
		err = errors.Join(ErrMalformedBody, cause)
	}
	return s.finish(ctx, sub, err)
}

func (s *Service) finish(ctx context.Context, sub Submission, err error) error {
	log := s.log.With(logger.Component("registration"), logger.ClientIP(sub.ClientKey))

	outcome := outcomeOf(err)
	if s.observer != nil {
		s.observer.RecordOutcome(outcome)
	}

	attrs := []any{
		logger.Outcome(outcome),
		logger.Username(value(sub.Request.Username)),
		logger.SubscriptionID(value(sub.Request.SubscriptionID)),
	}
	switch {
	case err == nil:
		log.InfoContext(ctx, "account registered", attrs...)
	case errors.Is(err, ErrServerMisconfigured),
		errors.Is(err, ErrUpstreamUnreachable),
		errors.Is(err, ErrVerificationUnavailable):
		log.ErrorContext(ctx, "registration failed", append(attrs, logger.Error(err))...)
	default:
		log.WarnContext(ctx, "registration rejected", append(attrs, logger.Error(err))...)
	}
	return err
}

// admit runs the checks that do not look at the body.
func (s *Service) admit(ctx context.Context, sub Submission) error {
	if sub.Method != http.MethodPost {
		return ErrMethodNotAllowed
	}

	if !s.accounts.Configured() {
		return ErrServerMisconfigured
	}

	return s.checkLimit(ctx, sub.ClientKey)
}

func (s *Service) register(ctx context.Context, sub Submission) error {
	req := sub.Request
	if missing := req.missingFields(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	if err := req.validate(); err != nil {
		return &InvalidFieldError{Errors: validator.ExtractValidationErrors(err)}
	}

	subscriptionID := value(req.SubscriptionID)
	if s.verifier != nil {
		if err := s.verify(ctx, subscriptionID); err != nil {
			return err
		}
	}

	return s.createAccount(ctx, mastodon.Account{
		Username: value(req.Username),
		Email:    value(req.Email),
		Password: value(req.Password),
		Locale:   s.cfg.Locale,
		Reason:   s.cfg.ReasonPrefix + subscriptionID,
	})
}

// checkLimit records the attempt. A failing store lets the request through:
// registrations stay possible while the shared store is down.
func (s *Service) checkLimit(ctx context.Context, key string) error {
	if key == "" {
		key = clientip.Unknown
	}

	res, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.log.ErrorContext(ctx, "rate limit store failed, allowing request",
			logger.Component("registration"),
			logger.ClientIP(key),
			logger.Error(err),
		)
		return nil
	}
	if !res.Allowed {
		return &RateLimitedError{Result: res, RetryAfter: res.RetryAfter(s.clock())}
	}
	return nil
}

func (s *Service) verify(ctx context.Context, subscriptionID string) error {
	start := s.clock()
	err := s.verifier.VerifySubscription(ctx, subscriptionID, s.planID)
	s.observe("paypal", err, start)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, paypal.ErrSubscriptionNotFound),
		errors.Is(err, paypal.ErrSubscriptionInactive),
		errors.Is(err, paypal.ErrPlanMismatch):
		return errors.Join(ErrSubscriptionUnverified, err)
	default:
		return errors.Join(ErrVerificationUnavailable, err)
	}
}

func (s *Service) createAccount(ctx context.Context, acc mastodon.Account) error {
	start := s.clock()
	err := s.accounts.CreateAccount(ctx, acc)
	s.observe("mastodon", err, start)

	if err == nil {
		return nil
	}
	if apiErr, ok := mastodon.IsAPIError(err); ok {
		return &UpstreamRejectedError{
			StatusCode:  apiErr.StatusCode,
			ContentType: apiErr.ContentType,
			Body:        apiErr.Body,
		}
	}
	if errors.Is(err, mastodon.ErrNotConfigured) {
		return errors.Join(ErrServerMisconfigured, err)
	}
	return errors.Join(ErrUpstreamUnreachable, err)
}

func (s *Service) observe(target string, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.observer.ObserveUpstream(target, result, s.clock().Sub(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrMethodNotAllowed):
		return OutcomeMethodNotAllowed
	case errors.Is(err, ErrServerMisconfigured):
		return OutcomeMisconfigured
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrMalformedBody):
		return OutcomeMalformedBody
	case errors.Is(err, ErrMissingFields):
		return OutcomeMissingFields
	case errors.Is(err, ErrInvalidField):
		return OutcomeInvalidField
	case errors.Is(err, ErrSubscriptionUnverified):
		return OutcomeSubscriptionUnverified
	case errors.Is(err, ErrVerificationUnavailable):
		return OutcomeVerificationUnavailable
	case errors.Is(err, ErrUpstreamRejected):
		return OutcomeUpstreamRejected
	default:
		return OutcomeUpstreamUnreachable
	}
}
