package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/cache"
	"github.com/matzehuels/unidep/pkg/pipeline"
	"github.com/matzehuels/unidep/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	redisURL    string
	cachePrefix string
	noCache     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		redisURL: os.Getenv(envRedisURL),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resolution HTTP API",
		Long: `Run an HTTP API that resolves posted manifests.

Results are cached in Redis when --redis-url (or ` + envRedisURL + `) is set,
otherwise in the local cache directory.

Endpoints:
  GET  /healthz
  GET  /v1/platforms
  POST /v1/resolve
  POST /v1/pip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var store cache.Cache
			switch {
			case opts.noCache:
				store = cache.NewNullCache()
			case opts.redisURL != "":
				rc, err := cache.NewRedisCache(ctx, opts.redisURL)
				if err != nil {
					return err
				}
				logger.Info("using redis cache")
				store = rc
			default:
				fc, err := newCache()
				if err != nil {
					return err
				}
				store = fc
			}

			keyer := cache.NewDefaultKeyer()
			if opts.cachePrefix != "" {
				keyer = cache.NewScopedKeyer(keyer, opts.cachePrefix)
			}
			runner := pipeline.NewRunner(store, keyer, logger)
			defer runner.Close()

			return server.New(runner, logger).ListenAndServe(ctx, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis URL for the result cache")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", "", "namespace for cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")

	return cmd
}
