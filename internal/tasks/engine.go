package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/samber/lo"
)

// Engine defines the operations exposed over HTTP and the CLI.
type Engine interface {
	// Playlist returns the playlist's first page of tracks merged with their audio features.
	Playlist(ctx context.Context, playlistID string) ([]models.Track, error)

	// Recommend returns candidates similar to the recent end of history, annotated with explanations and confidence.
	Recommend(ctx context.Context, history []models.Track) ([]models.Recommendation, error)
}

// PlaylistEngine implements [Engine] for a single bearer token.
type PlaylistEngine struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewPlaylistEngine creates a new [PlaylistEngine] backed by catalog. A nil logger falls back to [log.Default].
func NewPlaylistEngine(catalog services.Catalog, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &PlaylistEngine{catalog: catalog, logger: logger}
}

// Playlist fetches the first page of playlistID and merges each track with its audio features.
//
// Null items, episodes and tracks with null features are left out. Order follows the playlist.
func (e *PlaylistEngine) Playlist(ctx context.Context, playlistID string) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	items, err := e.catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	tracks := lo.FilterMap(items, func(t *models.Track, _ int) (models.Track, bool) {
		if t == nil {
			return models.Track{}, false
		}
		return *t, true
	})

	merged, err := e.withFeatures(ctx, tracks)
	if err != nil {
		return nil, err
	}

	e.logger.Info("playlist fetched", "playlist", playlistID, "items", len(items), "tracks", len(merged))
	return merged, nil
}

// Recommend builds a target profile from the last [RecentWindow] tracks of history and scores upstream candidates against it.
func (e *PlaylistEngine) Recommend(ctx context.Context, history []models.Track) ([]models.Recommendation, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: playlist_tracks must contain at least one track", shared.ErrInvalidInput)
	}

	window := Window(history)
	for _, t := range window {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	target, err := TargetProfile(window)
	if err != nil {
		return nil, err
	}

	seeds := SeedTracks(window)
	e.logger.Debug("recommendation seeds",
		"tracks", seeds, "artists", SeedArtists(window),
		"danceability", target.Danceability, "energy", target.Energy, "valence", target.Valence, "tempo", target.Tempo,
	)

	candidates, err := e.catalog.Recommendations(ctx, seeds, target, RecommendationLimit)
	if err != nil {
		return nil, err
	}

	scored, err := e.withFeatures(ctx, candidates)
	if err != nil {
		return nil, err
	}

	recommendations := lo.Map(scored, func(t models.Track, _ int) models.Recommendation {
		profile := t.AudioFeatures.Profile()
		return models.Recommendation{
			Track:        t,
			Explanations: Explain(profile, target),
			Confidence:   Confidence(profile, target),
		}
	})

	e.logger.Info("recommendations built", "window", len(window), "candidates", len(candidates), "returned", len(recommendations))
	return recommendations, nil
}

// withFeatures fetches audio features for tracks in one call and zips them positionally.
//
// Pairs with null features, or whose feature id names a different track, are skipped.
func (e *PlaylistEngine) withFeatures(ctx context.Context, tracks []models.Track) ([]models.Track, error) {
	if len(tracks) == 0 {
		return []models.Track{}, nil
	}

	ids := lo.Map(tracks, func(t models.Track, _ int) string { return t.ID })
	features, err := e.catalog.AudioFeatures(ctx, ids...)
	if err != nil {
		return nil, err
	}

	if len(features) != len(tracks) {
		e.logger.Warn("audio features count mismatch", "tracks", len(tracks), "features", len(features))
	}

	merged := make([]models.Track, 0, len(tracks))
	for i, t := range tracks {
		if i >= len(features) || features[i] == nil {
			e.logger.Warn("skipping track without audio features", "track", t.ID)
			continue
		}

		f := features[i]
		if id := f.ID(); id != "" && id != t.ID {
			e.logger.Warn("skipping track with mismatched audio features", "track", t.ID, "features", id)
			continue
		}

		t.AudioFeatures = f
		merged = append(merged, t)
	}

	return merged, nil
}
