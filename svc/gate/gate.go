package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ffmuc/social-registration/pkg/logger"
	"github.com/ffmuc/social-registration/pkg/statemachine"
	"github.com/ffmuc/social-registration/pkg/validator"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

// State is a step of the sign-up flow.
type State string

const (
	StateIdle             State = "idle"
	StateFormActive       State = "form_active"
	StateValidating       State = "validating"
	StateAwaitingApproval State = "awaiting_approval"
	StateRegistering      State = "registering"
	StateSucceeded        State = "succeeded"
)

// Event moves the flow between states.
type Event string

const (
	EventInteract  Event = "interact"
	EventCheckout  Event = "checkout"
	EventInvalid   Event = "invalid"
	EventValid     Event = "valid"
	EventApprove   Event = "approve"
	EventReject    Event = "reject"
	EventCancel    Event = "cancel"
	EventError     Event = "error"
	EventSucceeded Event = "succeeded"
	EventFailed    Event = "failed"
)

// Checkout is a subscription created with the payment provider and waiting
// for the buyer.
type Checkout struct {
	SubscriptionID string
	ApproveURL     string
}

// Approval is what the provider hands back once the buyer approved.
type Approval struct {
	SubscriptionID string
	OrderID        string
}

// Provider creates subscriptions for a plan.
type Provider interface {
	CreateSubscription(ctx context.Context, planID string) (Checkout, error)
}

// Registrar submits an approved registration to the server.
type Registrar interface {
	Register(ctx context.Context, req registration.Request) error
}

// ConfigSource loads the public checkout configuration.
type ConfigSource interface {
	PublicConfig(ctx context.Context) (publicconfig.PublicConfig, error)
}

// Gate drives one sign-up form through validation, checkout and
// registration. The registrar is only called from StateRegistering, which
// is reachable only after a passed validation and an approval carrying a
// subscription id.
type Gate struct {
	fsm       *statemachine.Machine[State, Event]
	provider  Provider
	registrar Registrar
	planID    string
	log       *slog.Logger

	mu          sync.Mutex
	form        registration.Form
	fieldErrors validator.ValidationErrors
	message     string
	checkout    Checkout

	submitting atomic.Bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Gate in StateIdle for planID. An empty planID is accepted;
// the checkout then simply stays unavailable.
func New(planID string, provider Provider, registrar Registrar, opts ...Option) (*Gate, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if registrar == nil {
		return nil, ErrRegistrarRequired
	}

	g := &Gate{
		provider:  provider,
		registrar: registrar,
		planID:    planID,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}

	fsm, err := statemachine.New[State, Event](StateIdle,
		statemachine.WithTerminal[State, Event](StateSucceeded),
		statemachine.WithTransitions[State, Event](
			statemachine.Transition[State, Event]{From: StateIdle, To: StateFormActive, Event: EventInteract},
			statemachine.Transition[State, Event]{From: StateFormActive, To: StateValidating, Event: EventCheckout},
			statemachine.Transition[State, Event]{From: StateValidating, To: StateFormActive, Event: EventInvalid},
			statemachine.Transition[State, Event]{From: StateValidating, To: StateAwaitingApproval, Event: EventValid},
			statemachine.Transition[State, Event]{
				From:   StateAwaitingApproval,
				To:     StateRegistering,
				Event:  EventApprove,
				Guards: []statemachine.Guard[State, Event]{carriesSubscription},
			},
			statemachine.Transition[State, Event]{From: StateAwaitingApproval, To: StateFormActive, Event: EventReject},
			statemachine.Transition[State, Event]{From: StateAwaitingApproval, To: StateFormActive, Event: EventCancel},
			statemachine.Transition[State, Event]{From: StateAwaitingApproval, To: StateFormActive, Event: EventError},
			statemachine.Transition[State, Event]{From: StateRegistering, To: StateSucceeded, Event: EventSucceeded},
			statemachine.Transition[State, Event]{From: StateRegistering, To: StateFormActive, Event: EventFailed},
		),
		statemachine.WithListener[State, Event](g.logTransition),
	)
	if err != nil {
		return nil, err
	}
	g.fsm = fsm
	return g, nil
}

// Load fetches the public configuration from src and creates a Gate for
// its plan.
func Load(ctx context.Context, src ConfigSource, provider Provider, registrar Registrar, opts ...Option) (*Gate, error) {
	if src == nil {
		return nil, ErrConfigSourceRequired
	}
	pc, err := src.PublicConfig(ctx)
	if err != nil {
		return nil, err
	}
	return New(pc.PlanID, provider, registrar, opts...)
}

func carriesSubscription(_ context.Context, _ State, _ Event, data any) bool {
	a, ok := data.(Approval)
	return ok && a.SubscriptionID != ""
}

func (g *Gate) logTransition(ctx context.Context, from, to State, event Event) {
	g.log.DebugContext(ctx, "gate transition",
		logger.Component("gate"),
		logger.Event(string(event)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}

// State returns the current step.
func (g *Gate) State() State {
	return g.fsm.Current()
}

// Message returns the last status text for the user.
func (g *Gate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// FieldErrors returns the per-field problems of the last checkout attempt.
func (g *Gate) FieldErrors() validator.ValidationErrors {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fieldErrors
}

// Checkout returns the subscription awaiting approval, if any.
func (g *Gate) Checkout() (Checkout, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.checkout, g.checkout.SubscriptionID != "" && g.fsm.Is(StateAwaitingApproval)
}

// Submitting reports whether a registration is in flight.
func (g *Gate) Submitting() bool {
	return g.submitting.Load()
}

// CheckoutReady reports whether the checkout should be offered. It never is
// before the first interaction or without a plan.
func (g *Gate) CheckoutReady() bool {
	if g.planID == "" {
		return false
	}
	s := g.fsm.Current()
	return s != StateIdle && s != StateSucceeded
}

// Interact records the current form contents. The first call makes the
// checkout available.
func (g *Gate) Interact(ctx context.Context, form registration.Form) error {
	if g.fsm.Terminal() {
		return ErrFinished
	}

	g.mu.Lock()
	g.form = form
	g.mu.Unlock()

	if g.fsm.Is(StateIdle) {
		if err := g.fsm.Fire(ctx, EventInteract, nil); err != nil && !errors.Is(err, statemachine.ErrNoTransition) {
			return err
		}
	}
	return nil
}

// BeginCheckout validates the form and, if it passes, creates a
// subscription with the provider. An invalid form returns to
// StateFormActive and the provider is never called.
func (g *Gate) BeginCheckout(ctx context.Context) (Checkout, error) {
	switch {
	case g.planID == "":
		return Checkout{}, ErrNoPlan
	case g.fsm.Terminal():
		return Checkout{}, ErrFinished
	case g.fsm.Is(StateIdle):
		return Checkout{}, ErrNotInteracted
	}

	if err := g.fsm.Fire(ctx, EventCheckout, nil); err != nil {
		return Checkout{}, ErrCheckoutInProgress
	}

	g.mu.Lock()
	form := g.form
	g.mu.Unlock()

	if err := registration.ValidateForm(form); err != nil {
		g.mu.Lock()
		g.fieldErrors = validator.ExtractValidationErrors(err)
		g.mu.Unlock()
		if ferr := g.fsm.Fire(ctx, EventInvalid, nil); ferr != nil {
			return Checkout{}, errors.Join(ErrInvalidForm, err, ferr)
		}
		return Checkout{}, errors.Join(ErrInvalidForm, err)
	}

	g.mu.Lock()
	g.fieldErrors = nil
	g.message = ""
	g.mu.Unlock()

	if err := g.fsm.Fire(ctx, EventValid, nil); err != nil {
		return Checkout{}, err
	}

	co, err := g.provider.CreateSubscription(ctx, g.planID)
	if err != nil {
		g.log.ErrorContext(ctx, "create subscription failed",
			logger.Component("gate"),
			logger.Error(err),
		)
		return Checkout{}, errors.Join(err, g.leaveApproval(ctx, EventError, UserMessage(err)))
	}

	g.mu.Lock()
	g.checkout = co
	g.mu.Unlock()
	return co, nil
}

// Approve submits the form with the approved subscription. Only one
// submission runs at a time per Gate; a concurrent call gets ErrSubmitting.
// A failed registration returns to StateFormActive with a message asking
// the user to retry.
func (g *Gate) Approve(ctx context.Context, approval Approval) error {
	if !g.submitting.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	defer g.submitting.Store(false)

	if err := g.fsm.Fire(ctx, EventApprove, approval); err != nil {
		switch {
		case g.fsm.Terminal():
			return ErrFinished
		case errors.Is(err, statemachine.ErrGuardRejected):
			return ErrMissingSubscription
		default:
			return ErrNotAwaitingApproval
		}
	}

	g.mu.Lock()
	req := registration.NewRequest(g.form, approval.SubscriptionID, approval.OrderID)
	g.checkout = Checkout{}
	g.mu.Unlock()

	if err := g.registrar.Register(ctx, req); err != nil {
		g.setMessage(UserMessage(err))
		g.log.WarnContext(ctx, "registration failed",
			logger.Component("gate"),
			logger.SubscriptionID(approval.SubscriptionID),
			logger.Error(err),
		)
		return errors.Join(err, g.fsm.Fire(ctx, EventFailed, nil))
	}

	g.setMessage(MessageSuccess)
	return g.fsm.Fire(ctx, EventSucceeded, nil)
}

// Cancel handles the buyer abandoning the approval.
func (g *Gate) Cancel(ctx context.Context) error {
	return g.leaveApproval(ctx, EventCancel, "")
}

// Reject handles the provider refusing the subscription.
func (g *Gate) Reject(ctx context.Context) error {
	return g.leaveApproval(ctx, EventReject, "")
}

// Fail handles a provider-side error during approval.
func (g *Gate) Fail(ctx context.Context, cause error) error {
	return g.leaveApproval(ctx, EventError, UserMessage(cause))
}

func (g *Gate) leaveApproval(ctx context.Context, event Event, message string) error {
	if err := g.fsm.Fire(ctx, event, nil); err != nil {
		return ErrNotAwaitingApproval
	}
	g.mu.Lock()
	g.checkout = Checkout{}
	g.message = message
	g.mu.Unlock()
	return nil
}

func (g *Gate) setMessage(m string) {
	g.mu.Lock()
	g.message = m
	g.mu.Unlock()
}
