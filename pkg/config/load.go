package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MOODBOARD_"

var filenameRe = regexp.MustCompile(`^[^/\\]+\.json$`)

// Dir returns the moodboard config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "moodboard")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load builds the configuration. An empty path reads [Path] and tolerates
// its absence; an explicit path must exist. Environment variables in the
// file are expanded before decoding.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotenv loads name into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotenv(name string) error {
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// envVars maps override names (without [EnvPrefix]) to their setters.
var envVars = map[string]func(*Config, string) error{
	"METADATA_FETCHER":    func(c *Config, v string) error { c.Metadata.Fetcher = v; return nil },
	"METADATA_PROXY_URL":  func(c *Config, v string) error { c.Metadata.ProxyURL = v; return nil },
	"METADATA_CACHE_SIZE": func(c *Config, v string) error { return setInt(&c.Metadata.CacheSize, v) },
	"METADATA_TIMEOUT":    func(c *Config, v string) error { return c.Metadata.Timeout.UnmarshalText([]byte(v)) },
	"METADATA_STORE":      func(c *Config, v string) error { c.Metadata.Store = v; return nil },
	"METADATA_STORE_TTL":  func(c *Config, v string) error { return c.Metadata.StoreTTL.UnmarshalText([]byte(v)) },
	"METADATA_CACHE_DIR":  func(c *Config, v string) error { c.Metadata.CacheDir = v; return nil },
	"REDIS_ADDR":          func(c *Config, v string) error { c.Metadata.RedisAddr = v; return nil },
	"REDIS_DB":            func(c *Config, v string) error { return setInt(&c.Metadata.RedisDB, v) },
	"HISTORY_MAX_STATES":  func(c *Config, v string) error { return setInt(&c.History.MaxStates, v) },
	"EXPORT_FILENAME":     func(c *Config, v string) error { c.Export.Filename = v; return nil },
	"SERVER_ADDR":         func(c *Config, v string) error { c.Server.Addr = v; return nil },
	"SERVER_CORS_ORIGINS": func(c *Config, v string) error { c.Server.CORSOrigins = splitList(v); return nil },
	"DOCUMENTS_DIR":       func(c *Config, v string) error { c.Documents.Dir = v; return nil },
	"MONGO_URI":           func(c *Config, v string) error { c.Documents.MongoURI = v; return nil },
	"MONGO_DATABASE":      func(c *Config, v string) error { c.Documents.MongoDatabase = v; return nil },
	"MONGO_COLLECTION":    func(c *Config, v string) error { c.Documents.MongoCollection = v; return nil },
}

// ApplyEnv overrides cfg from MOODBOARD_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, set := range envVars {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("not an integer: %q", v)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
