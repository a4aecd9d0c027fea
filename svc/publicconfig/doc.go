// Package publicconfig serves the PayPal client id and plan id the checkout
// needs in the browser. Both must be configured; otherwise the endpoint
// answers 500 so a broken deployment is visible before anyone pays.
package publicconfig
