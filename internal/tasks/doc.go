// Package tasks turns catalog calls into the two operations the service offers.
//
// # Playlist Fetch
//
// [PlaylistEngine.Playlist] reads the first page of a playlist and requests audio features for every track in a
// single batched call. Tracks and features are zipped by position:
//   - null items and podcast episodes are dropped before the features request
//   - tracks whose feature entry is null are dropped
//   - a feature entry carrying a different track id is dropped with a warning
//
// # Recommendations
//
// [PlaylistEngine.Recommend] uses the last [RecentWindow] tracks of the caller's history. The mean of
// danceability, energy, valence and tempo over that window is the target profile, which is sent upstream
// together with the first [SeedTrackCount] track ids.
//
// The [RecommendationLimit] candidates returned upstream are scored in upstream order. Their audio features are
// fetched in one request rather than one request per candidate.
//
// # Scoring
//
// [Explain] compares a candidate with the target using fixed thresholds:
//
//	energy   |Δ| < 0.15  "Similar energy level (X%)"
//	valence  |Δ| < 0.15  "Matches the mood"
//	tempo    |Δ| < 20    "Similar tempo (X BPM)"
//
// When nothing matches the single explanation "Great fit for your playlist" is returned.
//
// [Confidence] weights the four similarities equally and reports the sum on a 0-100 scale with one decimal.
// Tempo similarity is 1 - min(|Δ|/100, 1), the others 1 - |Δ|.
package tasks
