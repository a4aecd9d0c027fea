// Package paypal is a small client for the PayPal subscriptions API.
//
// The registration service uses it in two places: the server can confirm
// that an approval it received really belongs to an approved subscription
// of the configured plan, and the regctl tool creates subscriptions so the
// checkout flow can be driven from a terminal.
//
// Authentication uses the OAuth2 client credentials grant from
// golang.org/x/oauth2/clientcredentials against /v1/oauth2/token.
//
//	client, err := paypal.New(cfg)
//	if err != nil {
//		return err
//	}
//	if err := client.VerifySubscription(ctx, subscriptionID, planID); err != nil {
//		// ErrSubscriptionNotFound, ErrSubscriptionInactive, ErrPlanMismatch, ErrUnavailable
//	}
package paypal
