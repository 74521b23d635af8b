package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlist prints a playlist's tracks merged with their audio features.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx, cmd)
	if err != nil {
		return err
	}

	tracks, err := engine.Playlist(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	data, err := formatter.Tracks(format, "Playlist "+cmd.String("id"), tracks)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// Recommend prints recommendations for the history read from --file.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := r.readInput(cmd.String("file"))
	if err != nil {
		return err
	}

	history, err := parseHistory(data)
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx, cmd)
	if err != nil {
		return err
	}

	recs, err := engine.Recommend(ctx, history)
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}

	out, err := formatter.Recommendations(format, recs)
	if err != nil {
		return err
	}
	return r.writePlain("%s", out)
}

func (r *Runner) engine(ctx context.Context, cmd *cli.Command) (tasks.Engine, error) {
	token := cmd.String("token")
	if token == "" {
		return nil, fmt.Errorf("%w: --token", shared.ErrMissingToken)
	}

	provider, err := r.loadProvider(cmd)
	if err != nil {
		return nil, err
	}

	return tasks.NewPlaylistEngine(provider.Catalog(ctx, token), r.logger), nil
}

func (r *Runner) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseHistory accepts the /recommend request body or a bare array of tracks.
func parseHistory(data []byte) ([]models.Track, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tracks []models.Track
		if err := json.Unmarshal(trimmed, &tracks); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		return tracks, nil
	}

	var body server.RecommendRequest
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return body.PlaylistTracks, nil
}
