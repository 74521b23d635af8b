package main

import (
	"context"

	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the consent page URL and optionally opens it.
//
// After consenting, the browser lands on the configured redirect URI, which must be served by "moodmix serve".
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.loadProvider(cmd)
	if err != nil {
		return err
	}

	authURL := provider.AuthURL()
	if err := r.writePlain("%s\n", authURL); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err)
		}
	}

	return nil
}
