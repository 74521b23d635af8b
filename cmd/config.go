package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

const redacted = "********"

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote example configuration to %s\n", path)
}

// ConfigShow prints the resolved configuration as TOML with the client secret redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if config == nil {
		resolved, err := shared.ResolveConfig(cmd.String("config"), cmd.String("env"))
		if err != nil {
			return err
		}
		config = resolved
	}

	out := *config
	if out.Credentials.Spotify.ClientSecret != "" {
		out.Credentials.Spotify.ClientSecret = redacted
	}

	if err := toml.NewEncoder(r.output).Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
