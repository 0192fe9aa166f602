package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Root          string        `toml:"root"`
	ComponentDir  string        `toml:"component_dir"`
	Entries       []string      `toml:"entries"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Loader        Loader        `toml:"loader"`
	Observability Observability `toml:"observability"`
	History       History       `toml:"history"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Loader struct {
	CacheSize int     `toml:"cache_size"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	// Remote enables fetching http(s) imports.
	Remote bool `toml:"remote"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	TraceEndpoint string `toml:"trace_endpoint"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	if strings.TrimSpace(cfg.ComponentDir) == "" {
		cfg.ComponentDir = "bower_components"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Loader.CacheSize <= 0 {
		cfg.Loader.CacheSize = 256
	}
	if cfg.Loader.RateLimit <= 0 {
		cfg.Loader.RateLimit = 4
	}
	if cfg.Loader.Burst <= 0 {
		cfg.Loader.Burst = 2
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules"}
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "polygraph-history.db"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	if strings.Contains(cfg.ComponentDir, "/") {
		return fmt.Errorf("component_dir must be a bare directory name, got %q", cfg.ComponentDir)
	}
	for i, entry := range cfg.Entries {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("entries[%d] must not be empty", i)
		}
	}
	return nil
}
