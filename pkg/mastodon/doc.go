// Package mastodon is a minimal client for the account sign-up endpoint of a
// Mastodon instance.
//
// CreateAccount posts a form-encoded body to /api/v1/accounts with the
// instance's bearer token. It always sends agreement=true; the caller is
// responsible for having collected the user's consent.
//
//	client, err := mastodon.New("https://social.example.org", token)
//	err = client.CreateAccount(ctx, mastodon.Account{
//		Username: "alice",
//		Email:    "alice@example.org",
//		Password: "secret123",
//		Locale:   "de",
//		Reason:   "Paypal: I-ABC123",
//	})
//	if apiErr, ok := mastodon.IsAPIError(err); ok {
//		// relay apiErr.StatusCode and apiErr.Body
//	}
package mastodon
