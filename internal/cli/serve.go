package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/routeviz/bgpmap/internal/server"
	"github.com/routeviz/bgpmap/pkg/cache"
	"github.com/routeviz/bgpmap/pkg/metrics"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/session"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bgpmap HTTP API server",
		Long: `Run the bgpmap HTTP API server.

The server accepts topology uploads, computes layouts, streams pointer events
into diagrams, renders SVG output, and persists saved sessions.

By default the pipeline cache is file-based and sessions are stored on disk.
Point --redis at a Redis instance for a shared cache, and --mongo at a MongoDB
deployment for shared session storage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis address for the pipeline cache (host:port)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb URI for session storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

// runServe wires the cache, session store, and metrics, then serves until
// interrupted.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI string, noCache bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := c.serveCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}

	sessions, err := c.serveSessions(ctx, mongoURI)
	if err != nil {
		return err
	}

	registry := metrics.DefaultRegistry()
	metrics.Register(registry)

	// Server entries get their own namespace so a shared Redis instance can
	// also serve CLI runs without key collisions.
	keyer := cache.NewScopedKeyer(nil, "server:")

	srv := server.New(server.Options{
		Addr:     addr,
		Runner:   pipeline.NewRunner(store, keyer, c.Logger),
		Sessions: sessions,
		Metrics:  registry,
		Logger:   c.Logger,
	})
	defer srv.Close()

	printInfo("Serving on %s", addr)
	return srv.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL == "" {
		return newCache(false)
	}

	var store cache.Cache
	// Redis may still be coming up alongside us; retry the initial connect.
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		store, err = cache.NewRedisCache(ctx, cache.RedisOptions{Addr: redisURL})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", redisURL, err)
	}
	c.Logger.Info("using redis cache", "addr", redisURL)
	return store, nil
}

func (c *CLI) serveSessions(ctx context.Context, mongoURI string) (session.Store, error) {
	if mongoURI == "" {
		return session.NewFileStore("")
	}
	store, err := session.NewMongoStore(ctx, session.MongoOptions{URI: mongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	c.Logger.Info("using mongodb sessions", "uri", mongoURI)
	return store, nil
}
