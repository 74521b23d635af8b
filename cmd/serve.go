package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/server"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// Serve starts the HTTP service and blocks until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		config.Server.Port = port
	}
	if err := config.Validate(); err != nil {
		return err
	}

	provider, err := r.loadProvider(cmd)
	if err != nil {
		return err
	}

	router := server.New(provider, config.Server.FrontendOrigin, r.logger)
	httpServer := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          r.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting server", "addr", httpServer.Addr, "provider", provider.Name(), "frontend", config.Server.FrontendOrigin)
	return runServer(ctx, httpServer, r.logger)
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, httpServer *http.Server, logger *log.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
