// Package config loads doctriage settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/doctriage/config.toml (or
// ~/.config/doctriage/config.toml) unless DOCTRIAGE_CONFIG names another
// path. A missing file yields [Default]; command-line flags override
// whatever is loaded.
//
//	[server]
//	addr = ":8080"
//
//	[storage]
//	backend = "file"
//	data_dir = "/var/lib/doctriage"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// EnvPath overrides the config file location.
const EnvPath = "DOCTRIAGE_CONFIG"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds doctriage configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Cache    CacheConfig    `toml:"cache"`
	Render   RenderConfig   `toml:"render"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxUploadMB bounds archive uploads.
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// StorageConfig selects the document store.
type StorageConfig struct {
	Backend       string `toml:"backend"` // "memory", "file", "mongo"
	DataDir       string `toml:"data_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis", "none"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
	// Namespace prefixes every layout and artifact key, so one cache can
	// serve several matters.
	Namespace string `toml:"namespace"`
}

// RenderConfig holds graph defaults.
type RenderConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Seed     uint64  `toml:"seed"`
	Format   string  `toml:"format"`
	Renderer string  `toml:"renderer"` // "relgraph", "graphviz"
	Engine   string  `toml:"engine"`
}

// AnalysisConfig controls archive ingestion.
type AnalysisConfig struct {
	Concurrency int    `toml:"concurrency"`
	Seed        uint64 `toml:"seed"` // 0 draws a random seed per process
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080", MaxUploadMB: 256},
		Storage:  StorageConfig{Backend: "file", DataDir: DataDir(), MongoDatabase: "doctriage"},
		Cache:    CacheConfig{Backend: CacheFile, Dir: CacheDir(), TTL: Duration{24 * time.Hour}},
		Render:   RenderConfig{Width: 800, Height: 600, Format: "svg", Renderer: "relgraph", Engine: "neato"},
		Analysis: AnalysisConfig{Concurrency: 4},
	}
}

// Dir returns the doctriage config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "doctriage")
}

// DataDir returns the default directory of the file store.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "doctriage")
}

// CacheDir returns the default directory of the file cache.
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "doctriage")
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at [Path].
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path on top of the defaults. A missing
// file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config %s", path)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "file", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "storage.backend: unknown backend %q", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Storage.Backend == "mongo" && c.Storage.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "storage.mongo_uri is required for the mongo backend")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render viewport must not be negative")
	}
	if c.Analysis.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "analysis.concurrency must not be negative")
	}
	return nil
}
