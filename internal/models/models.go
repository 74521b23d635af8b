// package models defines the data model for the recommendation service
package models

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/desertthunder/moodmix/internal/shared"
)

const (
	keyDanceability = "danceability"
	keyEnergy       = "energy"
	keyValence      = "valence"
	keyTempo        = "tempo"
)

// FeatureProfile is the four-feature vector used to steer and score recommendations.
type FeatureProfile struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// AudioFeatures is a track's audio-feature vector as reported by Spotify.
//
// Only the four features used for scoring are typed. Every other key (acousticness, key, mode, id, uri, ...) is
// kept in Extra and written back unchanged by MarshalJSON.
type AudioFeatures struct {
	Danceability float64
	Energy       float64
	Valence      float64
	Tempo        float64
	Extra        map[string]any
}

// Profile returns the typed features as a [FeatureProfile].
func (f AudioFeatures) Profile() FeatureProfile {
	return FeatureProfile{
		Danceability: f.Danceability,
		Energy:       f.Energy,
		Valence:      f.Valence,
		Tempo:        f.Tempo,
	}
}

// ID returns the "id" passthrough key, or "" when the upstream object carried none.
func (f AudioFeatures) ID() string {
	id, _ := f.Extra["id"].(string)
	return id
}

// MarshalJSON flattens the typed features and Extra into one object.
func (f AudioFeatures) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Extra)+4)
	maps.Copy(out, f.Extra)
	out[keyDanceability] = f.Danceability
	out[keyEnergy] = f.Energy
	out[keyValence] = f.Valence
	out[keyTempo] = f.Tempo
	return json.Marshal(out)
}

// UnmarshalJSON decodes an audio-features object. The four scoring features must be present and numeric.
func (f *AudioFeatures) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: audio_features must be an object", shared.ErrInvalidInput)
	}

	var decoded AudioFeatures
	for key, dst := range map[string]*float64{
		keyDanceability: &decoded.Danceability,
		keyEnergy:       &decoded.Energy,
		keyValence:      &decoded.Valence,
		keyTempo:        &decoded.Tempo,
	} {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("%w: audio_features missing %q", shared.ErrInvalidInput, key)
		}
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%w: audio_features %q must be a number", shared.ErrInvalidInput, key)
		}
		*dst = n
		delete(raw, key)
	}

	if len(raw) > 0 {
		decoded.Extra = raw
	}
	*f = decoded
	return nil
}

// Track is a playlist or candidate track merged with its audio features.
type Track struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Artist        string         `json:"artist"`
	AlbumArt      *string        `json:"album_art"`
	PreviewURL    *string        `json:"preview_url"`
	AudioFeatures *AudioFeatures `json:"audio_features"`
}

// Validate checks that a caller-supplied track can take part in profile averaging and seeding.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}
	if t.AudioFeatures == nil {
		return fmt.Errorf("%w: track %s has no audio_features", shared.ErrInvalidInput, t.ID)
	}
	return nil
}

// Recommendation is a candidate track annotated with human-readable explanations and a confidence in [0, 100].
type Recommendation struct {
	Track
	Explanations []string `json:"explanations"`
	Confidence   float64  `json:"confidence"`
}

// OptionalString returns a pointer to s, or nil when s is empty.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
