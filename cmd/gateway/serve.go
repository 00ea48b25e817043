package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Jouiet/VocalIA-sub010/internal/app"
	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Run the OAuth gateway HTTP server. Configuration is read from the
environment, an optional .env file and Vault Agent secret files.

Examples:
  gateway serve
  HTTP_PORT=3010 OAUTH_STATE_STORE=redis gateway serve`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, err := cfg.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := app.NewProvider(ctx, config)
	if err != nil {
		return err
	}
	log := provider.Infra.Logger

	server := app.NewServer(provider)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run()
	}()

	select {
	case err = <-serverErr:
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := provider.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		joined := errors.Join(errs...)
		log.Error(shutdownCtx, "shutdown finished with errors", logger.Err(joined))
		return joined
	}
	return nil
}
