package registration

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ffmuc/social-registration/handler"
	"github.com/ffmuc/social-registration/pkg/binder"
	"github.com/ffmuc/social-registration/pkg/ratelimit"
)

// Client-facing messages. Internal detail stays in the logs.
const (
	msgMisconfigured           = "Server is not configured for registrations"
	msgRateLimited             = "Too many registration attempts. Please try again later."
	msgMissingFields           = "Missing required fields"
	msgSubscriptionUnverified  = "Subscription could not be verified"
	msgVerificationUnavailable = "Subscription could not be verified right now. Please try again later."
	msgUpstreamUnreachable     = "Registration service is unreachable. Please try again later."
)

// SuccessResponse is the body of a successful registration.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Handle returns the router mounted at /api/register. Every method reaches
// the pipeline so that wrong methods are answered with 405 by Register.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.HandleFunc("/", handler.Wrap(s.handleRegister,
		handler.WithBinder[handler.Context, Request](markBodyErrors(binder.JSON(
			binder.WithMethods(http.MethodPost),
			binder.WithMaxSize(s.cfg.BodyLimit),
			binder.AllowUnknownFields(),
			binder.AllowMissingContentType(),
		))),
		handler.WithErrorHandler[handler.Context, Request](s.handleError(handler.NewErrorHandler(s.log))),
	))

	return r
}

// markBodyErrors tags decode failures with ErrMalformedBody.
func markBodyErrors(bind handler.Bind) handler.Bind {
	return func(r *http.Request, v any) error {
		err := bind(r, v)
		if err != nil && !errors.Is(err, binder.ErrBinderNotApplicable) {
			return errors.Join(ErrMalformedBody, err)
		}
		return err
	}
}

// handleError sends body decode failures through RejectBody so they are
// rate limited like any other attempt. Everything else goes to next.
func (s *Service) handleError(next handler.ErrorHandler[handler.Context]) handler.ErrorHandler[handler.Context] {
	return func(ctx handler.Context, err error) {
		if !errors.Is(err, ErrMalformedBody) {
			next(ctx, err)
			return
		}

		r := ctx.Request()
		err = s.RejectBody(ctx, Submission{Method: r.Method, ClientKey: s.keyFunc(r)}, err)
		if errors.Is(err, ErrMalformedBody) {
			next(ctx, err)
			return
		}
		if renderErr := s.errorResponse(ctx, err).Render(ctx.ResponseWriter(), r); renderErr != nil {
			next(ctx, renderErr)
		}
	}
}

func (s *Service) handleRegister(ctx handler.Context, req Request) handler.Response {
	r := ctx.Request()

	err := s.Register(ctx, Submission{
		Method:    r.Method,
		ClientKey: s.keyFunc(r),
		Request:   req,
	})
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return handler.JSON(SuccessResponse{Success: true})
}

func (s *Service) errorResponse(ctx handler.Context, err error) handler.Response {
	var rejected *UpstreamRejectedError
	if errors.As(err, &rejected) {
		contentType := rejected.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		return handler.Raw(rejected.StatusCode, contentType, rejected.Body)
	}

	var limited *RateLimitedError
	if errors.As(err, &limited) && limited.Result != nil {
		ratelimit.SetHeaders(ctx.ResponseWriter(), limited.Result, s.clock())
	}

	httpErr := toHTTPError(err)
	var opts []handler.JSONOption
	if errors.Is(err, ErrMethodNotAllowed) {
		opts = append(opts, handler.WithHeader("Allow", http.MethodPost))
	}
	return handler.JSONError(httpErr.Code, httpErr.Message, opts...)
}

// toHTTPError maps a Register error to a status and a client-safe message.
func toHTTPError(err error) handler.HTTPError {
	var invalid *InvalidFieldError
	var missing *MissingFieldsError

	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return handler.ErrMethodNotAllowed.Wrap(err)
	case errors.Is(err, ErrServerMisconfigured):
		return handler.NewHTTPError(http.StatusInternalServerError, msgMisconfigured).Wrap(err)
	case errors.Is(err, ErrRateLimited):
		return handler.NewHTTPError(http.StatusTooManyRequests, msgRateLimited).Wrap(err)
	case errors.As(err, &missing):
		return handler.NewHTTPError(http.StatusBadRequest, msgMissingFields+": "+strings.Join(missing.Fields, ", ")).Wrap(err)
	case errors.As(err, &invalid):
		return handler.NewHTTPError(http.StatusBadRequest, invalid.Message()).Wrap(err)
	case errors.Is(err, ErrSubscriptionUnverified):
		return handler.NewHTTPError(http.StatusPaymentRequired, msgSubscriptionUnverified).Wrap(err)
	case errors.Is(err, ErrVerificationUnavailable):
		return handler.NewHTTPError(http.StatusServiceUnavailable, msgVerificationUnavailable).Wrap(err)
	case errors.Is(err, ErrUpstreamUnreachable):
		return handler.NewHTTPError(http.StatusInternalServerError, msgUpstreamUnreachable).Wrap(err)
	default:
		return handler.ErrInternalServerError.Wrap(err)
	}
}
