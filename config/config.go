package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/debounce"
	"github.com/poiesic/mentorit/ingestion"
	"github.com/poiesic/mentorit/search"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DatabaseConfig locates the persisted catalog.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig tunes discovery and similarity.
type SearchConfig struct {
	DefaultSort  string `yaml:"default_sort"`
	SimilarLimit int    `yaml:"similar_limit"`
	DebounceMS   int    `yaml:"debounce_ms"`
	CacheSize    int    `yaml:"cache_size"`
}

// ImportConfig tunes the ingestion pipeline.
type ImportConfig struct {
	PoolSize  int `yaml:"pool_size"`
	BatchSize int `yaml:"batch_size"`
}

// LoadConfig tunes catalog session loading.
type LoadConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	RetryDelayMS int `yaml:"retry_delay_ms"`
}

// Config is the root application configuration structure.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Import   ImportConfig   `yaml:"import"`
	Load     LoadConfig     `yaml:"load"`
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "mentorit.db"
	}
	if cfg.Search.DefaultSort == "" {
		cfg.Search.DefaultSort = core.SortRecommended.String()
	}
	if cfg.Search.SimilarLimit == 0 {
		cfg.Search.SimilarLimit = search.DefaultSimilarLimit
	}
	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = int(debounce.DefaultWindow / time.Millisecond)
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = search.DefaultCacheSize
	}
	if cfg.Import.BatchSize == 0 {
		cfg.Import.BatchSize = ingestion.DefaultBatchSize
	}
	if cfg.Load.MaxAttempts == 0 {
		cfg.Load.MaxAttempts = catalog.DefaultMaxAttempts
	}
	if cfg.Load.RetryDelayMS == 0 {
		cfg.Load.RetryDelayMS = int(catalog.DefaultRetryDelay / time.Millisecond)
	}
}

// Validate checks value ranges. Import.PoolSize 0 means "pick from CPU count".
func (c *Config) Validate() error {
	if _, err := core.ParseSortKey(c.Search.DefaultSort); err != nil {
		return fmt.Errorf("%w: search.default_sort: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Search.SimilarLimit < 1:
		return fmt.Errorf("%w: search.similar_limit must be at least 1", ErrInvalidConfig)
	case c.Search.DebounceMS < 0:
		return fmt.Errorf("%w: search.debounce_ms must not be negative", ErrInvalidConfig)
	case c.Search.CacheSize < 0:
		return fmt.Errorf("%w: search.cache_size must not be negative", ErrInvalidConfig)
	case c.Import.PoolSize < 0:
		return fmt.Errorf("%w: import.pool_size must not be negative", ErrInvalidConfig)
	case c.Import.BatchSize < 1:
		return fmt.Errorf("%w: import.batch_size must be at least 1", ErrInvalidConfig)
	case c.Load.MaxAttempts < 1:
		return fmt.Errorf("%w: load.max_attempts must be at least 1", ErrInvalidConfig)
	case c.Load.RetryDelayMS < 0:
		return fmt.Errorf("%w: load.retry_delay_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SortKey returns the configured default sort key.
func (c *Config) SortKey() core.SortKey {
	key, err := core.ParseSortKey(c.Search.DefaultSort)
	if err != nil {
		return core.SortRecommended
	}
	return key
}

// DebounceWindow returns the configured debounce window.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// RetryDelay returns the configured base delay between load attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Load.RetryDelayMS) * time.Millisecond
}
