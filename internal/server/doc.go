// Package server provides HTTP routing, middleware, and the handlers of the recommendation service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] path patterns internally with method filtering.
// Middleware wraps the whole mux so CORS headers are present on every response, including 404s and 405s.
//
// # Handler Interface
//
// Handlers implement the [Handler] interface and return their [Route] list, which keeps route definitions
// next to the implementation.
//
// # Routes
//
//	GET  /login          {"auth_url": "..."}
//	GET  /callback       302 to the frontend origin with ?access_token=<token>
//	GET  /playlist/{id}  playlist tracks with audio features (bearer token required)
//	POST /recommend      recommendations for {"playlist_tracks": [...]} (bearer token required)
//	GET  /health         {"status": "ok"}
//
// # Access Token Handoff
//
// [OAuthHandler] keeps no session. The access token is placed in the redirect URL query, so it shows up in
// browser history and in any access log that records full URLs. The request [Logger] records only the path.
//
// # Errors
//
// Failures are written as {"error": "..."} with a status derived from the shared error kinds:
//   - [shared.ErrMissingToken], [shared.ErrUpstreamAuth] : 401
//   - [shared.ErrInvalidInput] : 400
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrUpstreamTransient] : 503
//   - [shared.ErrAPIRequest] : 502
package server
