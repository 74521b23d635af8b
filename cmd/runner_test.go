package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	tu "github.com/desertthunder/moodmix/internal/testing"
	"github.com/urfave/cli/v3"
)

func testConfig() *shared.Config {
	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "test_client_id"
	config.Credentials.Spotify.ClientSecret = "test_client_secret"
	return config
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "moodmix",
		Flags:    globalFlags(),
		Commands: r.register(),
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := testConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")
			httpClient := &http.Client{}
			provider := &tu.MockProvider{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Provider:   provider,
				HTTPClient: httpClient,
				Logger:     logger,
				Input:      input,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.provider != provider {
				t.Error("expected provider to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("config is resolved lazily", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config != nil {
				t.Error("expected config to be resolved when a command runs")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("hello"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("auth url", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Provider: &tu.MockProvider{URL: "https://accounts.test/authorize?client_id=abc"},
			Logger:   shared.NewLogger(&bytes.Buffer{}),
			Output:   output,
		})

		if err := newApp(runner).Run(context.Background(), []string{"moodmix", "auth", "url"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(output.String()) != "https://accounts.test/authorize?client_id=abc" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("auth url without credentials", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"moodmix", "auth", "url"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("auth url builds the Spotify service from config", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: testConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: output,
		})

		if err := newApp(runner).Run(context.Background(), []string{"moodmix", "auth", "url"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "client_id=test_client_id") {
			t.Errorf("expected client id in URL, got %q", output.String())
		}
		if runner.provider == nil || runner.provider.Name() != "Spotify" {
			t.Errorf("expected Spotify provider to be created")
		}
	})

	t.Run("playlist", func(t *testing.T) {
		provider := &tu.MockProvider{Mock: &tu.MockCatalog{
			PlaylistTracksFunc: func(_ context.Context, id string) ([]*models.Track, error) {
				return []*models.Track{{ID: "t1", Name: "One", Artist: "A"}}, nil
			},
			AudioFeaturesFunc: func(_ context.Context, _ ...string) ([]*models.AudioFeatures, error) {
				return []*models.AudioFeatures{tu.Features("t1", 0.5, 0.5, 0.5, 120)}, nil
			},
		}}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Provider: provider, Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		args := []string{"moodmix", "playlist", "--id", "pl1", "--token", "user-token", "--pretty=false"}
		if err := newApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var tracks []models.Track
		if err := json.Unmarshal(output.Bytes(), &tracks); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(tracks) != 1 || tracks[0].AudioFeatures == nil {
			t.Errorf("unexpected tracks %+v", tracks)
		}
		if len(provider.Tokens) != 1 || provider.Tokens[0] != "user-token" {
			t.Errorf("expected catalog bound to the token, got %v", provider.Tokens)
		}
	})

	t.Run("recommend", func(t *testing.T) {
		history := `[{"id": "h1", "name": "One", "artist": "A", "audio_features": {"danceability": 0.5, "energy": 0.5, "valence": 0.5, "tempo": 120}}]`

		newProvider := func() *tu.MockProvider {
			return &tu.MockProvider{Mock: &tu.MockCatalog{
				RecommendationsFunc: func(_ context.Context, seeds []string, _ models.FeatureProfile, _ int) ([]models.Track, error) {
					return []models.Track{{ID: "c1", Name: "Cand", Artist: "C"}}, nil
				},
				AudioFeaturesFunc: func(_ context.Context, _ ...string) ([]*models.AudioFeatures, error) {
					return []*models.AudioFeatures{tu.Features("c1", 0.5, 0.5, 0.5, 120)}, nil
				},
			}}
		}

		t.Run("from file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			tu.MustWriteFile(t, path, `{"playlist_tracks": `+history+`}`)

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Provider: newProvider(), Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

			args := []string{"moodmix", "recommend", "--file", path, "--token", "user-token"}
			if err := newApp(runner).Run(context.Background(), args); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var recs []models.Recommendation
			if err := json.Unmarshal(output.Bytes(), &recs); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}
			if len(recs) != 1 || recs[0].Confidence != 100 {
				t.Errorf("unexpected recommendations %+v", recs)
			}
		})

		t.Run("from stdin", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Provider: newProvider(),
				Logger:   shared.NewLogger(&bytes.Buffer{}),
				Input:    strings.NewReader(history),
				Output:   output,
			})

			args := []string{"moodmix", "recommend", "--file", "-", "--token", "user-token"}
			if err := newApp(runner).Run(context.Background(), args); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "explanations") {
				t.Errorf("expected recommendations, got %q", output.String())
			}
		})

		t.Run("empty history", func(t *testing.T) {
			provider := newProvider()
			runner := NewRunner(RunnerOpts{
				Provider: provider,
				Logger:   shared.NewLogger(&bytes.Buffer{}),
				Input:    strings.NewReader(`{"playlist_tracks": []}`),
				Output:   &bytes.Buffer{},
			})

			args := []string{"moodmix", "recommend", "--file", "-", "--token", "user-token"}
			err := newApp(runner).Run(context.Background(), args)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if provider.Mock.Calls() != 0 {
				t.Errorf("expected no upstream calls")
			}
		})

		t.Run("missing file", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Provider: newProvider(), Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})

			args := []string{"moodmix", "recommend", "--file", filepath.Join(t.TempDir(), "nope.json"), "--token", "user-token"}
			if err := newApp(runner).Run(context.Background(), args); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("as text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Provider: newProvider(),
				Logger:   shared.NewLogger(&bytes.Buffer{}),
				Input:    strings.NewReader(history),
				Output:   output,
			})

			args := []string{"moodmix", "recommend", "--file", "-", "--token", "user-token", "--format", "text"}
			if err := newApp(runner).Run(context.Background(), args); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "1. C - Cand [100.0]") {
				t.Errorf("expected text output, got %q", output.String())
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			provider := newProvider()
			runner := NewRunner(RunnerOpts{
				Provider: provider,
				Logger:   shared.NewLogger(&bytes.Buffer{}),
				Input:    strings.NewReader(history),
				Output:   &bytes.Buffer{},
			})

			args := []string{"moodmix", "recommend", "--file", "-", "--token", "user-token", "--format", "yaml"}
			err := newApp(runner).Run(context.Background(), args)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if provider.Mock.Calls() != 0 {
				t.Errorf("expected no upstream calls")
			}
		})
	})

	t.Run("playlist as csv", func(t *testing.T) {
		provider := &tu.MockProvider{Mock: &tu.MockCatalog{
			PlaylistTracksFunc: func(_ context.Context, id string) ([]*models.Track, error) {
				return []*models.Track{{ID: "t1", Name: "One", Artist: "A"}}, nil
			},
			AudioFeaturesFunc: func(_ context.Context, _ ...string) ([]*models.AudioFeatures, error) {
				return []*models.AudioFeatures{tu.Features("t1", 0.5, 0.25, 0.75, 120)}, nil
			},
		}}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Provider: provider, Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		args := []string{"moodmix", "playlist", "--id", "pl1", "--token", "user-token", "--format", "csv"}
		if err := newApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected header and one row, got %q", output.String())
		}
		if lines[1] != "t1,One,A,0.500,0.250,0.750,120.0" {
			t.Errorf("unexpected CSV row %q", lines[1])
		}
	})

	t.Run("config init", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"moodmix", "--config", path, "config", "init"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[credentials.spotify]") {
			t.Errorf("expected example config to be written")
		}

		if err := newApp(runner).Run(context.Background(), []string{"moodmix", "--config", path, "config", "init"}); err == nil {
			t.Error("expected error when the file already exists")
		}
	})

	t.Run("config show redacts the secret", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(), Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"moodmix", "config", "show"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		if strings.Contains(out, "test_client_secret") {
			t.Errorf("secret must not be printed, got %q", out)
		}
		if !strings.Contains(out, redacted) || !strings.Contains(out, "test_client_id") {
			t.Errorf("unexpected output %q", out)
		}
		if runner.config.Credentials.Spotify.ClientSecret != "test_client_secret" {
			t.Errorf("expected the runner config to be left unchanged")
		}
	})
}

func TestParseHistory(t *testing.T) {
	tc := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{name: "request body", data: `{"playlist_tracks": [{"id": "a"}, {"id": "b"}]}`, wantLen: 2},
		{name: "bare array", data: ` [{"id": "a"}]`, wantLen: 1},
		{name: "empty object", data: `{}`, wantLen: 0},
		{name: "malformed", data: `{"playlist_tracks": `, wantErr: true},
		{name: "bad array", data: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHistory([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("expected %d tracks, got %d", tt.wantLen, len(got))
			}
		})
	}
}

func TestRunServer(t *testing.T) {
	t.Run("shuts down when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

		done := make(chan error, 1)
		go func() { done <- runServer(ctx, httpServer, shared.NewLogger(&bytes.Buffer{})) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(shutdownTimeout + time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("reports listen errors", func(t *testing.T) {
		httpServer := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}

		err := runServer(context.Background(), httpServer, shared.NewLogger(&bytes.Buffer{}))
		if err == nil || !strings.Contains(err.Error(), "server error") {
			t.Errorf("expected server error, got %v", err)
		}
	})
}
