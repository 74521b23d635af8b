package tasks

import (
	"fmt"
	"math"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/samber/lo"
)

const (
	RecentWindow        = 5  // tracks from the end of the history used as the profile window
	SeedTrackCount      = 2  // seed tracks sent with the recommendations request
	SeedArtistCount     = 3  // window tracks inspected for seed artist names
	RecommendationLimit = 20 // candidates requested upstream

	EnergyThreshold  = 0.15
	ValenceThreshold = 0.15
	TempoThreshold   = 20.0 // BPM

	tempoScale    = 100.0
	featureWeight = 0.25

	fallbackExplanation = "Great fit for your playlist"
)

// Window returns the last [RecentWindow] tracks of history, or all of them if there are fewer.
func Window(history []models.Track) []models.Track {
	if len(history) <= RecentWindow {
		return history
	}
	return history[len(history)-RecentWindow:]
}

// TargetProfile averages the four scoring features over window.
func TargetProfile(window []models.Track) (models.FeatureProfile, error) {
	if len(window) == 0 {
		return models.FeatureProfile{}, fmt.Errorf("%w: playlist_tracks is empty", shared.ErrInvalidInput)
	}

	var sum models.FeatureProfile
	for i, t := range window {
		if t.AudioFeatures == nil {
			return models.FeatureProfile{}, fmt.Errorf("%w: track %d has no audio_features", shared.ErrInvalidInput, i)
		}
		p := t.AudioFeatures.Profile()
		sum.Danceability += p.Danceability
		sum.Energy += p.Energy
		sum.Valence += p.Valence
		sum.Tempo += p.Tempo
	}

	n := float64(len(window))
	return models.FeatureProfile{
		Danceability: sum.Danceability / n,
		Energy:       sum.Energy / n,
		Valence:      sum.Valence / n,
		Tempo:        sum.Tempo / n,
	}, nil
}

// SeedTracks returns the ids of the first [SeedTrackCount] window tracks.
func SeedTracks(window []models.Track) []string {
	return lo.Map(lo.Subset(window, 0, SeedTrackCount), func(t models.Track, _ int) string { return t.ID })
}

// SeedArtists returns the distinct artist names of the first [SeedArtistCount] window tracks.
func SeedArtists(window []models.Track) []string {
	names := lo.Map(lo.Subset(window, 0, SeedArtistCount), func(t models.Track, _ int) string { return t.Artist })
	return lo.Uniq(lo.Compact(names))
}

// Explain lists the ways candidate resembles target, in energy, mood, tempo order.
//
// The result is never empty.
func Explain(candidate, target models.FeatureProfile) []string {
	explanations := []string{}

	if math.Abs(candidate.Energy-target.Energy) < EnergyThreshold {
		explanations = append(explanations, fmt.Sprintf("Similar energy level (%d%%)", int(math.Round(candidate.Energy*100))))
	}
	if math.Abs(candidate.Valence-target.Valence) < ValenceThreshold {
		explanations = append(explanations, "Matches the mood")
	}
	if math.Abs(candidate.Tempo-target.Tempo) < TempoThreshold {
		explanations = append(explanations, fmt.Sprintf("Similar tempo (%d BPM)", int(math.Round(candidate.Tempo))))
	}

	if len(explanations) == 0 {
		return []string{fallbackExplanation}
	}
	return explanations
}

// Confidence scores how close candidate is to target on a 0-100 scale, rounded to one decimal.
//
// Each feature contributes a similarity in [0,1] weighted equally. Tempo differences are scaled by 100 BPM.
func Confidence(candidate, target models.FeatureProfile) float64 {
	similarity := func(a, b float64) float64 {
		return math.Max(0, 1-math.Abs(a-b))
	}

	tempo := 1 - math.Min(math.Abs(candidate.Tempo-target.Tempo)/tempoScale, 1)

	sum := featureWeight*similarity(candidate.Danceability, target.Danceability) +
		featureWeight*similarity(candidate.Energy, target.Energy) +
		featureWeight*similarity(candidate.Valence, target.Valence) +
		featureWeight*tempo

	return math.Round(sum*100*10) / 10
}
