package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetpack/internal/api"
	"github.com/matzehuels/sheetpack/pkg/cache"
	"github.com/matzehuels/sheetpack/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP packing service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		redisAddr   string
		cachePrefix string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP packing service",
		Long: `Run the HTTP packing service.

The service computes packing plans from image dimensions posted as JSON;
no image data crosses the wire. With --redis, plans are cached in a
shared Redis instance so multiple service replicas reuse each other's
work; otherwise the local file cache is used.

Endpoints:
  POST /v1/pack   compute a plan from {"images": [...]}
  GET  /healthz   liveness probe
  GET  /version   build information`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, cachePrefix, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address (host:port) for a shared cache")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", "", "key prefix isolating this deployment in a shared cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, cachePrefix string, noCache bool) error {
	backend, err := c.serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cachePrefix)
	}
	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, c.Logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		c.Logger.Info("server stopped")
		return nil
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		backend, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect to redis %s: %w", redisAddr, err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
		return backend, nil
	}
	return newCache(false)
}
