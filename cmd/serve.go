package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/conference"
	"github.com/Shivanand-hulikatti/virtual-events/internal/config"
	"github.com/Shivanand-hulikatti/virtual-events/internal/handler"
	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/Shivanand-hulikatti/virtual-events/internal/service"
	"github.com/spf13/cobra"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var (
		host    string
		port    int
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

Examples:
  # Start with configuration from env vars (and .env)
  virtual-events serve

  # Keep state on disk between restarts
  STORAGE_BACKEND=file STORAGE_DIR=./data virtual-events serve

  # Start on a specific port with console logs
  virtual-events serve --port 9090 --log-format console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if backend != "" {
				cfg.Storage.Backend = backend
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("config error: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "server port (default: 8080)")
	cmd.Flags().StringVar(&backend, "storage", "", "storage backend: memory, file or postgres")
	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger := config.NewLogger(cfg.Logging, logOut)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting virtual events server")
	metrics.Init(Version, GitCommit, BuildDate)

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher := newPublisher(cfg.Kafka, logger)
	defer closePublisher()

	app := service.New(ctx, st,
		service.WithLatency(cfg.Simulation.Latency),
		service.WithPublisher(publisher),
		service.WithLogger(logger),
	)
	conf := conference.NewManager(app.Sessions, app.Registry, cfg.Simulation.ConferenceJoinDelay, logger)
	h := handler.New(app, conf, cfg.Server.BaseURL, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler.NewRouter(h, cfg.CORS, logger),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
