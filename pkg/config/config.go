// Package config loads moodboard settings.
//
// Settings come from, in increasing precedence: [Default], the TOML file
// (see [Path]), a ".env" file in the working directory and MOODBOARD_*
// environment variables. The merged result is checked with [Config.Validate].
//
//	cfg, err := config.Load("")
//	svc := metadata.NewService(fetcher, metadata.WithCapacity(cfg.Metadata.CacheSize))
package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Fetcher names.
const (
	FetcherProxy  = "proxy"
	FetcherDirect = "direct"
)

// Store backends for the persistent link-preview tier.
const (
	StoreNone  = "none"
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config is the complete configuration.
type Config struct {
	Metadata  MetadataConfig  `toml:"metadata"`
	History   HistoryConfig   `toml:"history"`
	Export    ExportConfig    `toml:"export"`
	Server    ServerConfig    `toml:"server"`
	Documents DocumentsConfig `toml:"documents"`
}

// MetadataConfig configures link previews.
type MetadataConfig struct {
	Fetcher   string   `toml:"fetcher"`
	ProxyURL  string   `toml:"proxy_url"`
	CacheSize int      `toml:"cache_size"`
	Timeout   Duration `toml:"timeout"`
	Store     string   `toml:"store"`
	StoreTTL  Duration `toml:"store_ttl"`
	CacheDir  string   `toml:"cache_dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// HistoryConfig configures sketch undo.
type HistoryConfig struct {
	MaxStates int `toml:"max_states"`
}

// ExportConfig configures canvas export.
type ExportConfig struct {
	Filename string `toml:"filename"`
}

// ServerConfig configures `moodboard serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DocumentsConfig configures the external document source.
type DocumentsConfig struct {
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Metadata: MetadataConfig{
			Fetcher:   FetcherProxy,
			ProxyURL:  "https://api.allorigins.win/get?url=",
			CacheSize: 100,
			Timeout:   Duration(10 * time.Second),
			Store:     StoreNone,
			StoreTTL:  Duration(24 * time.Hour),
			RedisAddr: "localhost:6379",
		},
		History: HistoryConfig{MaxStates: 50},
		Export:  ExportConfig{Filename: "canvas-export.json"},
		Server:  ServerConfig{Addr: ":8080", CORSOrigins: []string{"*"}},
		Documents: DocumentsConfig{
			MongoDatabase:   "moodboard",
			MongoCollection: "documents",
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.Errors{
		"metadata":  c.Metadata.Validate(),
		"history":   c.History.Validate(),
		"export":    c.Export.Validate(),
		"server":    c.Server.Validate(),
		"documents": c.Documents.Validate(),
	}.Filter()
}

func (c *MetadataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Fetcher, validation.Required, validation.In(FetcherProxy, FetcherDirect)),
		validation.Field(&c.ProxyURL, validation.When(c.Fetcher == FetcherProxy, validation.Required, is.URL)),
		validation.Field(&c.CacheSize, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(Duration(time.Millisecond))),
		validation.Field(&c.Store, validation.Required, validation.In(StoreNone, StoreFile, StoreRedis)),
		validation.Field(&c.StoreTTL, validation.Min(Duration(0))),
		validation.Field(&c.RedisAddr, validation.When(c.Store == StoreRedis, validation.Required)),
		validation.Field(&c.RedisDB, validation.Min(0)),
	)
}

func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxStates, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Filename, validation.Required, validation.Match(filenameRe).Error("must be a .json file name")),
	)
}

func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
	)
}

func (c *DocumentsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MongoDatabase, validation.When(c.MongoURI != "", validation.Required)),
		validation.Field(&c.MongoCollection, validation.When(c.MongoURI != "", validation.Required)),
	)
}

// Duration is a time.Duration read from and written to TOML as a string
// such as "10s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}
