package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
)

// maxAudioFeatureIDs is the Web API limit on ids per audio-features request.
const maxAudioFeatureIDs = 100

// spotifyCatalog implements [Catalog] with an SDK client bound to one access token.
type spotifyCatalog struct {
	client *spotify.Client
	logger *log.Logger
}

// PlaylistTracks retrieves the first page of playlist items.
func (c *spotifyCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]*models.Track, error) {
	page, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", playlistID, classify(err))
	}

	tracks := make([]*models.Track, len(page.Items))
	for i, item := range page.Items {
		full := item.Track.Track
		if full == nil || full.ID == "" {
			continue
		}

		track := newTrack(full.ID, full.Name, full.Artists, full.Album, full.PreviewURL)
		tracks[i] = &track
	}

	c.logger.Debug("fetched playlist items", "playlist", playlistID, "items", len(page.Items), "total", page.Total)
	return tracks, nil
}

// AudioFeatures retrieves audio features for trackIDs, batching at the Web API limit.
func (c *spotifyCatalog) AudioFeatures(ctx context.Context, trackIDs ...string) ([]*models.AudioFeatures, error) {
	if len(trackIDs) == 0 {
		return []*models.AudioFeatures{}, nil
	}

	ids := lo.Map(trackIDs, func(id string, _ int) spotify.ID { return spotify.ID(id) })
	out := make([]*models.AudioFeatures, 0, len(ids))

	for _, chunk := range lo.Chunk(ids, maxAudioFeatureIDs) {
		raw, err := c.client.GetAudioFeatures(ctx, chunk...)
		if err != nil {
			return nil, fmt.Errorf("failed to get audio features: %w", classify(err))
		}

		for _, f := range raw {
			if f == nil {
				out = append(out, nil)
				continue
			}

			features, err := featuresFromSDK(f)
			if err != nil {
				return nil, err
			}
			out = append(out, features)
		}
	}

	return out, nil
}

// Recommendations requests candidates for the seed tracks with target_* attributes set from target.
func (c *spotifyCatalog) Recommendations(ctx context.Context, seedTrackIDs []string, target models.FeatureProfile, limit int) ([]models.Track, error) {
	seeds := spotify.Seeds{
		Tracks: lo.Map(seedTrackIDs, func(id string, _ int) spotify.ID { return spotify.ID(id) }),
	}

	attrs := spotify.NewTrackAttributes().
		TargetDanceability(target.Danceability).
		TargetEnergy(target.Energy).
		TargetValence(target.Valence).
		TargetTempo(target.Tempo)

	recs, err := c.client.GetRecommendations(ctx, seeds, attrs, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", classify(err))
	}

	tracks := make([]models.Track, 0, len(recs.Tracks))
	for _, st := range recs.Tracks {
		tracks = append(tracks, newTrack(st.ID, st.Name, st.Artists, st.Album, st.PreviewURL))
	}

	return tracks, nil
}

// newTrack maps SDK track fields to a [models.Track] with the primary artist and the largest album image.
func newTrack(id spotify.ID, name string, artists []spotify.SimpleArtist, album spotify.SimpleAlbum, previewURL string) models.Track {
	track := models.Track{
		ID:         string(id),
		Name:       name,
		PreviewURL: models.OptionalString(previewURL),
	}

	if len(artists) > 0 {
		track.Artist = artists[0].Name
	}
	if len(album.Images) > 0 {
		track.AlbumArt = models.OptionalString(album.Images[0].URL)
	}

	return track
}

// featuresFromSDK round-trips an SDK audio features object through JSON so unknown keys are kept verbatim.
func featuresFromSDK(f *spotify.AudioFeatures) (*models.AudioFeatures, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: encode audio features: %v", shared.ErrAPIRequest, err)
	}

	var features models.AudioFeatures
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("%w: decode audio features: %v", shared.ErrAPIRequest, err)
	}

	return &features, nil
}
