// package server contains the router, middleware and handlers for the recommendation web service
package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/services"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, CORS, request IDs, etc.
type Middleware func(http.Handler) http.Handler

// Route binds a handler to a method and a [http.ServeMux] path pattern.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Handler defines the interface for groups of HTTP endpoints.
// Implementations return every route they serve so they can be registered in one call.
type Handler interface {
	Routes() []Route // Routes returns the routes this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// New builds the service router: request ids, request logging and CORS around the OAuth and API handlers.
func New(provider services.Provider, frontendOrigin string, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(RequestID(), Logger(logger), CORS())
	r.Handler(NewOAuthHandler(provider, frontendOrigin, logger))
	r.Handler(NewAPIHandler(provider, logger))
	return r
}
