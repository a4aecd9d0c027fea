package publicconfig

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ffmuc/social-registration/handler"
	"github.com/ffmuc/social-registration/pkg/logger"
)

// MissingConfigMessage is returned to the client when either id is unset.
const MissingConfigMessage = "Missing PayPal configuration. Set PAYPAL_CLIENT_ID and PAYPAL_PLAN_ID on the server."

// ErrMissingConfig is returned by Get when the configuration is incomplete.
var ErrMissingConfig = errors.New("paypal client id or plan id is not configured")

// PublicConfig is the body of GET /api/public-config. It never carries a
// secret. The paypal-prefixed keys mirror the names older clients read.
type PublicConfig struct {
	PaymentClientID string `json:"paymentClientId"`
	PlanID          string `json:"planId"`
	PaypalClientID  string `json:"paypalClientId"`
	PaypalPlanID    string `json:"paypalPlanId"`
}

// Service serves the non-secret runtime configuration for the checkout.
type Service struct {
	cfg Config
	log *slog.Logger
}

// New creates a Service. A nil logger discards output.
func New(cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{cfg: cfg, log: log}
}

// Get resolves the public configuration.
func (s *Service) Get() (PublicConfig, error) {
	if !s.cfg.Complete() {
		return PublicConfig{}, ErrMissingConfig
	}
	clientID, planID := s.cfg.PaymentClientID(), s.cfg.EffectivePlanID()
	return PublicConfig{
		PaymentClientID: clientID,
		PlanID:          planID,
		PaypalClientID:  clientID,
		PaypalPlanID:    planID,
	}, nil
}

// Handle returns the router mounted at /api/public-config.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(s.handleGet))
	return r
}

func (s *Service) handleGet(ctx handler.Context, _ struct{}) handler.Response {
	pc, err := s.Get()
	if err != nil {
		s.log.ErrorContext(ctx, "public config requested but incomplete",
			logger.Component("publicconfig"),
			logger.Error(err),
		)
		return handler.JSONError(http.StatusInternalServerError, MissingConfigMessage)
	}
	return handler.JSON(pc, handler.WithHeader("Cache-Control", "no-store"))
}
