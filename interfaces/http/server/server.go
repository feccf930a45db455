// Package server runs the HTTP API with its background workers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/di"
	"booklog-backend/infrastructure/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// Run serves the API on the configured address until ctx is cancelled, then shuts down
// gracefully
func Run(ctx context.Context, c *di.Container) error {
	ln, err := net.Listen("tcp", c.Config.ServerAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", c.Config.ServerAddress, err)
	}
	return Serve(ctx, c, ln)
}

// Serve is Run on an existing listener
func Serve(ctx context.Context, c *di.Container, ln net.Listener) error {
	cfg := c.Config
	logger := c.Logger

	shutdownTracing := observability.Shutdown(func(context.Context) error { return nil })
	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRate:  cfg.Tracing.SampleRate,
		}, logger)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			shutdownTracing = shutdown
		}
	}

	// Layout tuning in the config file applies to new graph views without a restart
	if cfg.File != "" {
		watcher, err := config.NewLayoutWatcher(cfg.File, logger)
		if err != nil {
			logger.Warn("Layout hot reload disabled", zap.Error(err))
		} else {
			watcher.OnChange(c.Graphs.SetLayoutParams)
			watcher.Start()
			defer watcher.Stop()
		}
	}

	srv := &http.Server{
		Handler:      c.Router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("address", ln.Addr().String()),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Live sessions are hijacked connections that Shutdown does not wait for
		c.Hub.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
