package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	provider   services.Provider
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from the --config and --env flags when a command runs. A nil Provider is built from
// the resolved Spotify credentials.
type RunnerOpts struct {
	Config     *shared.Config
	Provider   services.Provider
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		provider:   opts.Provider,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, configCommand, playlistCommand, recommendCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves and validates the configuration once, applying the configured log level.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"), cmd.String("env"))
		if err != nil {
			return nil, err
		}
		r.config = config
	}

	if err := shared.SetLogLevel(r.logger, r.config.Log.Level); err != nil {
		return nil, err
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	return r.config, nil
}

// loadProvider returns the configured provider, creating the Spotify service on first use.
func (r *Runner) loadProvider(cmd *cli.Command) (services.Provider, error) {
	if r.provider != nil {
		return r.provider, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	srv, err := services.NewSpotifyService(
		config.Credentials.Spotify,
		services.WithHTTPClient(r.httpClient),
		services.WithLogger(r.logger),
	)
	if err != nil {
		return nil, err
	}

	r.provider = srv
	return srv, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
