package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zeroprod/newsletter/handler"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/ops"
)

// ShutdownTimeout bounds how long serve waits for in-flight requests after
// receiving SIGINT or SIGTERM.
const ShutdownTimeout = 10 * time.Second

func newServeCmd(factory *Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serves GET /health_check and POST /subscriptions on the configured
application host and port until interrupted.

Structured JSON logs are written to standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()
			return serve(ctx, cmd, factory)
		},
	}
	registerConfigDir(cmd)
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, factory *Factory) error {
	settings, err := factory.LoadSettings(getConfigDir(cmd))
	if err != nil {
		return err
	}
	logger := logging.New(cmd.OutOrStdout(), settings.Log.Level)

	store, err := factory.NewStore(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(store); err != nil {
			logger.Error().Err(err).Msg("Failed to close database")
		}
	}()

	mailer, err := factory.NewMailer(settings)
	if err != nil {
		return err
	}

	agent := ops.NewProdAgent(store, mailer, &logger)
	srv, err := handler.NewServer(
		settings.Application.Address(),
		handler.NewHandler(agent, &logger),
		&logger,
	)
	if err != nil {
		return err
	}
	return runUntilDone(ctx, srv, &logger)
}

func runUntilDone(
	ctx context.Context, srv *handler.Server, logger *zerolog.Logger,
) error {
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), ShutdownTimeout,
	)
	defer cancel()

	return errors.Join(srv.Shutdown(shutdownCtx), <-serveErr)
}
