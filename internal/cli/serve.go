package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memegen/internal/server"
	"github.com/matzehuels/memegen/pkg/cache"
	"github.com/matzehuels/memegen/pkg/config"
)

// serveOptions holds CLI flags for the serve command. Empty values fall
// back to the [server] config section.
type serveOptions struct {
	addr     string
	redis    string
	cacheDir string
	noCache  bool
}

// serveCommand creates the serve command for the HTTP editing API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editing API",
		Long: `Serve editing sessions over HTTP.

Exports are cached in redis when --redis is set, otherwise in a local
directory. Run "memegen serve --help" for flags.`,
		Example: `  memegen serve --addr :9000
  memegen serve --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the shared export cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for the file export cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the export cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOptions) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.merge(cfg.Server)

	exportCache, err := opts.openCache(ctx)
	if err != nil {
		return err
	}
	defer exportCache.Close()

	edOpts := cfg.EditorOptions()
	edOpts.Cache = cache.Instrument(exportCache, cacheKeyType)
	edOpts.Logger = logger
	if cfg.Server.KeyPrefix != "" {
		edOpts.Keyer = cache.NewScopedKeyer(nil, cfg.Server.KeyPrefix)
	}

	return server.New(server.Config{
		Addr:       opts.addr,
		Editor:     edOpts,
		SessionTTL: cfg.Server.SessionTTL,
		Logger:     logger,
	}).Run(ctx)
}

// merge fills unset flags from the config file.
func (o *serveOptions) merge(s config.Server) {
	if o.addr == "" {
		o.addr = s.Addr
	}
	if o.redis == "" {
		o.redis = s.Redis
	}
	if o.cacheDir == "" {
		o.cacheDir = s.CacheDir
	}
	o.noCache = o.noCache || s.NoCache
}

// openCache picks redis, then the file cache, then no cache.
func (o serveOptions) openCache(ctx context.Context) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	switch {
	case o.noCache:
		return cache.NewNullCache(), nil
	case o.redis != "":
		logger.Info("using redis export cache", "addr", o.redis)
		return cache.NewRedisCache(ctx, o.redis)
	}

	dir := o.cacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	logger.Debug("using file export cache", "dir", dir)
	return cache.NewFileCache(dir)
}
