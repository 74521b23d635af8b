// package services defines the interfaces for talking to the Spotify accounts service and Web API
package services

import (
	"context"

	"github.com/desertthunder/moodmix/internal/models"
	"golang.org/x/oauth2"
)

// Authorizer performs the OAuth2 authorization code flow with the music provider.
type Authorizer interface {
	// AuthURL returns the provider consent page URL embedding client id, redirect URI and scopes.
	AuthURL() string

	// Exchange trades a one-time authorization code for an access token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// Catalog is the subset of the provider's Web API used by the recommendation engine, bound to one bearer token.
type Catalog interface {
	// PlaylistTracks returns the first page of a playlist's items in order.
	//
	// Entries that are not tracks (null items, podcast episodes) are returned as nil so callers keep positions.
	// Returned tracks carry no audio features.
	PlaylistTracks(ctx context.Context, playlistID string) ([]*models.Track, error)

	// AudioFeatures returns one entry per id, in request order. Entries the provider reports as null are nil.
	AudioFeatures(ctx context.Context, trackIDs ...string) ([]*models.AudioFeatures, error)

	// Recommendations returns up to limit candidate tracks seeded by seedTrackIDs and steered toward target.
	Recommendations(ctx context.Context, seedTrackIDs []string, target models.FeatureProfile, limit int) ([]models.Track, error)
}

// Provider is a music service that can authorize users and hand out token-scoped catalogs.
type Provider interface {
	Authorizer

	// Catalog returns a [Catalog] that authenticates every request with the bearer token.
	Catalog(ctx context.Context, token string) Catalog

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
