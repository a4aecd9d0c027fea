// Package gate is the client half of the sign-up flow: a state machine that
// keeps a form from reaching the registration endpoint until it validated
// and the buyer approved a subscription.
//
//	idle -> form_active -> validating -> awaiting_approval -> registering -> succeeded
//
// Invalid forms, cancelled or rejected approvals and failed registrations all
// return to form_active. Succeeded is terminal.
//
//	src, _ := gate.NewHTTPConfigSource("https://signup.example")
//	reg, _ := gate.NewHTTPRegistrar("https://signup.example")
//	g, err := gate.Load(ctx, src, gate.NewPayPalProvider(pp), reg)
//
//	_ = g.Interact(ctx, form)
//	co, err := g.BeginCheckout(ctx) // buyer visits co.ApproveURL
//	err = g.Approve(ctx, gate.Approval{SubscriptionID: co.SubscriptionID})
//	fmt.Println(g.Message())
package gate
