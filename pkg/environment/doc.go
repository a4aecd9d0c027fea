// Package environment names the deployment stage the service runs in.
//
// Environment implements encoding.TextUnmarshaler, so config structs parsed
// with caarlos0/env can declare an Environment field and get alias handling
// (dev, stage, prod) and validation for free. The logger and the CORS setup
// pick their defaults from it.
package environment
