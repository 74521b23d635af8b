// Package services defines the [Provider] interface for the music streaming provider and implements it for Spotify.
//
// # OAuth Coordinator
//
// [SpotifyService] wraps an [oauth2.Config] for the authorization code grant. [SpotifyService.AuthURL] builds the
// consent URL with the playlist and library scopes and [SpotifyService.Exchange] trades the callback code for an
// access token. The token is returned to the caller and never stored.
//
// # Catalog
//
// [SpotifyService.Catalog] builds a [Catalog] for a single bearer token on top of the zmb3/spotify SDK.
// A new SDK client is created per call so no credential outlives the request that supplied it.
//
// The catalog maps SDK types to [models.Track] and [models.AudioFeatures]. Audio features pass through JSON so
// every upstream key survives unchanged.
//
// # Error Handling
//
// SDK, OAuth and transport errors are classified into typed errors from the shared package:
//   - [shared.ErrUpstreamAuth] : invalid, expired or consumed code; invalid or expired token (401/403)
//   - [shared.ErrNotFound] : unknown playlist or track (404)
//   - [shared.ErrUpstreamTransient] : rate limiting, 5xx responses and network failures
//   - [shared.ErrAPIRequest] : any other upstream failure
//
// Nothing is retried; callers decide what to do with transient errors.
package services
