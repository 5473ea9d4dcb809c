// Package cli implements the moodboard command-line interface.
//
// Commands work on canvas files in the persisted JSON format. They share one
// [CLI] value that carries the logger and the loaded configuration, and
// build their services (metadata, render cache, document source) through the
// factories in this file.
//
// # Commands
//
//   - new: write a starter canvas
//   - validate: check canvas files, optionally re-checking on change
//   - classify: show which node a pasted value becomes, or add it to a canvas
//   - metadata: fetch link previews
//   - render: DOT or SVG preview of a canvas
//   - doc: place records from an external document system
//   - inspect: browse the nodes of a canvas in the terminal
//   - serve: run the HTTP API
//   - cache: manage the link-preview and render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs log-backed observability hooks.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/moodboard/pkg/cache"
	"github.com/matzehuels/moodboard/pkg/config"
	"github.com/matzehuels/moodboard/pkg/integrations"
	"github.com/matzehuels/moodboard/pkg/integrations/docsys"
	"github.com/matzehuels/moodboard/pkg/metadata"
	"github.com/matzehuels/moodboard/pkg/render"
	"github.com/matzehuels/moodboard/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "moodboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks log cache and HTTP events.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installHooks(c.Logger)
	}
}

// config loads the configuration on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newStore opens the persistent tier selected by the configuration. The
// returned cache must be closed by the caller.
func (c *CLI) newStore(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Metadata.Store {
	case config.StoreRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.Metadata.RedisAddr,
			DB:     cfg.Metadata.RedisDB,
			Prefix: appName + ":",
		})
	case config.StoreFile:
		dir, err := cacheDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
	return cache.NewNullCache(), nil
}

// newMetadata builds the link-preview service described by the
// configuration.
func (c *CLI) newMetadata(ctx context.Context, noCache bool) (*metadata.Service, func(), error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	client := integrations.NewClient(map[string]string{
		"User-Agent": integrations.UserAgent,
		"Accept":     "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8",
	}, integrations.WithTimeout(cfg.Metadata.Timeout.Std()))

	var fetcher metadata.Fetcher = metadata.NewProxyFetcher(cfg.Metadata.ProxyURL, client)
	if cfg.Metadata.Fetcher == config.FetcherDirect {
		fetcher = metadata.NewDirectFetcher(client)
	}

	store, err := c.newStore(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	svc := metadata.NewService(fetcher,
		metadata.WithCapacity(cfg.Metadata.CacheSize),
		metadata.WithStore(store, cfg.Metadata.StoreTTL.Std()),
		metadata.WithKeyer(metadataKeyer(cfg)),
		metadata.WithFetchTimeout(fetchAttempts*cfg.Metadata.Timeout.Std()),
		metadata.WithLogger(c.Logger),
	)
	return svc, func() { _ = store.Close() }, nil
}

// fetchAttempts matches the client's default retry count; a shared preview
// fetch may use every attempt.
const fetchAttempts = 3

// metadataKeyer scopes persistent preview entries by fetcher, so proxied and
// direct fetches of one URL never share an entry.
func metadataKeyer(cfg *config.Config) cache.Keyer {
	return cache.NewScopedKeyer(nil, cfg.Metadata.Fetcher+":")
}

// newRenderer builds an SVG renderer backed by the file cache.
func (c *CLI) newRenderer(noCache bool) *render.Renderer {
	if noCache {
		return render.NewRenderer(nil, nil)
	}
	cfg, err := c.config()
	if err != nil {
		return render.NewRenderer(nil, nil)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return render.NewRenderer(nil, nil)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache unavailable", "dir", dir, "err", err)
		return render.NewRenderer(nil, nil)
	}
	return render.NewRenderer(fc, nil)
}

// newSession builds an editing session configured from the CLI settings.
func (c *CLI) newSession(meta *metadata.Service) (*session.Session, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithMaxStates(cfg.History.MaxStates),
		session.WithFilename(cfg.Export.Filename),
		session.WithLogger(c.Logger),
	}
	if meta != nil {
		opts = append(opts, session.WithMetadata(meta))
	}
	return session.New(opts...), nil
}

// docFlags select an external document source.
type docFlags struct {
	dir        string
	mongoURI   string
	database   string
	collection string
}

// newSource opens the document source named by the flags, falling back to
// the [documents] configuration section.
func (c *CLI) newSource(ctx context.Context, f docFlags) (docsys.Source, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if f.dir == "" && f.mongoURI == "" {
		f.dir, f.mongoURI = cfg.Documents.Dir, cfg.Documents.MongoURI
	}
	if f.database == "" {
		f.database = cfg.Documents.MongoDatabase
	}
	if f.collection == "" {
		f.collection = cfg.Documents.MongoCollection
	}
	if f.mongoURI != "" {
		return docsys.NewMongoSource(ctx, docsys.MongoConfig{
			URI:            f.mongoURI,
			Database:       f.database,
			Collection:     f.collection,
			ConnectTimeout: 10 * time.Second,
		})
	}
	if f.dir == "" {
		f.dir = "."
	}
	return docsys.NewDirSource(f.dir)
}

// cacheDir returns the cache directory: the configured one, or the XDG
// standard location (~/.cache/moodboard/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Metadata.CacheDir != "" {
		return cfg.Metadata.CacheDir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
