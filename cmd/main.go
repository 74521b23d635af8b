package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "moodmix",
		Usage:    "Spotify playlist analysis and mood-matched recommendations",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			logger.Error("set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or run \"moodmix config init\"")
		}
		logger.Fatalf("application error: %v", err)
	}
}
