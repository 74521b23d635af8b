package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrMissingToken = fmt.Errorf("missing or malformed bearer token")
	ErrUpstreamAuth = fmt.Errorf("upstream authorization failed")

	// API and service errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrUpstreamTransient = fmt.Errorf("upstream temporarily unavailable")
	ErrNotFound          = fmt.Errorf("resource not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
