// Package models defines the request-scoped entities exchanged between the Spotify catalog, the recommendation
// engine, and HTTP clients.
//
//   - [Track] : merged playlist item and audio features, the shape returned by GET /playlist/{id}
//   - [AudioFeatures] : typed danceability, energy, valence and tempo plus every other upstream key, kept verbatim
//   - [FeatureProfile] : the four-feature vector used for targeting and scoring
//   - [Recommendation] : a candidate [Track] with explanations and a 0-100 confidence
//
// Nothing in this package is persisted; values live for the duration of a single request.
package models
