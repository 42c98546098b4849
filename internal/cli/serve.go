package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/medict-api/internal/container"
	"github.com/Brownie44l1/medict-api/internal/handlers"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load every domain model and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := opts.cfg, opts.log

	c, err := container.Build(ctx, cfg, log, opts.open)
	if err != nil {
		log.Error("Startup failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("Shutdown cleanup failed", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	handlers.NewHandler(c.Pipeline, log, cfg.MaxUploadBytes(), cfg.InferenceTimeout).Routes(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("models_dir", cfg.ModelsDir),
		zap.Strings("endpoints", []string{
			"GET /health",
			"GET /domains",
			"POST /predict",
			"POST /predict/image",
		}))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.InferenceTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
