package gate

import (
	"context"
	"errors"
	"time"

	"github.com/ffmuc/social-registration/pkg/paypal"
)

var (
	// ErrApprovalDeclined is returned by AwaitApproval when the subscription
	// ended before the buyer approved it.
	ErrApprovalDeclined = errors.New("subscription was not approved")
	ErrInvalidInterval  = errors.New("poll interval must be positive")
)

// PayPalProvider creates checkouts through the PayPal subscriptions API.
type PayPalProvider struct {
	client *paypal.Client
}

// NewPayPalProvider wraps client as a Provider.
func NewPayPalProvider(client *paypal.Client) *PayPalProvider {
	return &PayPalProvider{client: client}
}

func (p *PayPalProvider) CreateSubscription(ctx context.Context, planID string) (Checkout, error) {
	sub, err := p.client.CreateSubscription(ctx, planID)
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{SubscriptionID: sub.ID, ApproveURL: sub.ApproveURL()}, nil
}

// AwaitApproval polls the subscription every interval until the buyer
// approved it, it was cancelled or expired, or ctx ends.
func (p *PayPalProvider) AwaitApproval(ctx context.Context, subscriptionID string, interval time.Duration) (Approval, error) {
	if interval <= 0 {
		return Approval{}, ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sub, err := p.client.GetSubscription(ctx, subscriptionID)
		if err != nil {
			return Approval{}, err
		}
		switch {
		case sub.Usable():
			return Approval{SubscriptionID: sub.ID}, nil
		case sub.Status == paypal.StatusCancelled,
			sub.Status == paypal.StatusExpired,
			sub.Status == paypal.StatusSuspended:
			return Approval{}, ErrApprovalDeclined
		}

		select {
		case <-ctx.Done():
			return Approval{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
