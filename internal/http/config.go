package http

import "time"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Access layers
	Books BookAccess
	Users UserAccess

	// Store connectivity for /health; nil reports "not configured"
	Health Pinger

	// Upper bound for store calls made while serving a request
	StoreTimeout time.Duration

	// Allowed CORS origins; empty or "*" allows any origin
	AllowedOrigins []string

	// Application info
	Version string
}
