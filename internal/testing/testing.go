// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"golang.org/x/oauth2"
)

// MockCatalog is a test double for [services.Catalog].
//
// Unset funcs return empty results. Calls are counted per method.
type MockCatalog struct {
	PlaylistTracksFunc  func(ctx context.Context, playlistID string) ([]*models.Track, error)
	AudioFeaturesFunc   func(ctx context.Context, trackIDs ...string) ([]*models.AudioFeatures, error)
	RecommendationsFunc func(ctx context.Context, seeds []string, target models.FeatureProfile, limit int) ([]models.Track, error)

	mu                   sync.Mutex
	PlaylistTracksCalls  int
	AudioFeaturesCalls   int
	RecommendationsCalls int
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]*models.Track, error) {
	m.mu.Lock()
	m.PlaylistTracksCalls++
	m.mu.Unlock()

	if m.PlaylistTracksFunc == nil {
		return []*models.Track{}, nil
	}
	return m.PlaylistTracksFunc(ctx, playlistID)
}

func (m *MockCatalog) AudioFeatures(ctx context.Context, trackIDs ...string) ([]*models.AudioFeatures, error) {
	m.mu.Lock()
	m.AudioFeaturesCalls++
	m.mu.Unlock()

	if m.AudioFeaturesFunc == nil {
		return make([]*models.AudioFeatures, len(trackIDs)), nil
	}
	return m.AudioFeaturesFunc(ctx, trackIDs...)
}

func (m *MockCatalog) Recommendations(ctx context.Context, seeds []string, target models.FeatureProfile, limit int) ([]models.Track, error) {
	m.mu.Lock()
	m.RecommendationsCalls++
	m.mu.Unlock()

	if m.RecommendationsFunc == nil {
		return []models.Track{}, nil
	}
	return m.RecommendationsFunc(ctx, seeds, target, limit)
}

// Calls returns the total number of catalog calls made.
func (m *MockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PlaylistTracksCalls + m.AudioFeaturesCalls + m.RecommendationsCalls
}

// MockProvider is a test double for [services.Provider]
//
// Tests should read Mock only after requests have completed.
type MockProvider struct {
	URL          string
	ExchangeFunc func(ctx context.Context, code string) (*oauth2.Token, error)
	Mock         *MockCatalog

	mu     sync.Mutex
	Tokens []string // tokens passed to Catalog, in order
}

func (m *MockProvider) AuthURL() string { return m.URL }

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.ExchangeFunc == nil {
		return &oauth2.Token{AccessToken: "mock-token"}, nil
	}
	return m.ExchangeFunc(ctx, code)
}

// Catalog records the token and returns the shared [MockCatalog], creating one if needed.
func (m *MockProvider) Catalog(ctx context.Context, token string) services.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Tokens = append(m.Tokens, token)
	if m.Mock == nil {
		m.Mock = &MockCatalog{}
	}
	return m.Mock
}

func (m *MockProvider) Name() string { return "mock" }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Features builds audio features for id with the four scoring features set.
func Features(id string, danceability, energy, valence, tempo float64) *models.AudioFeatures {
	return &models.AudioFeatures{
		Danceability: danceability,
		Energy:       energy,
		Valence:      valence,
		Tempo:        tempo,
		Extra:        map[string]any{"id": id},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var (
	_ io.ReadCloser     = (*FCloser)(nil)
	_ services.Catalog  = (*MockCatalog)(nil)
	_ services.Provider = (*MockProvider)(nil)
)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
