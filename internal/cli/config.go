package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration, loaded from
// ~/.config/nodenav/config.toml. Every field has a working default so the
// file is optional; flags override file values.
type Config struct {
	// Graph is the default authored graph file used when a command is not
	// given one explicitly.
	Graph string `toml:"graph"`

	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// StoreConfig selects and configures the snapshot store backend.
type StoreConfig struct {
	// Backend is one of: memory, file, redis, mongo.
	Backend string `toml:"backend"`

	// Dir is the snapshot directory for the file backend.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string       `toml:"addr"`
	Password string       `toml:"password"`
	DB       int          `toml:"db"`
	TTL      tomlDuration `toml:"ttl"`
}

// MongoConfig configures the mongo store backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RenderConfig holds render command defaults.
type RenderConfig struct {
	Format   string `toml:"format"`
	Detailed bool   `toml:"detailed"`
}

// tomlDuration parses "24h" style duration strings.
type tomlDuration time.Duration

// UnmarshalText implements toml duration decoding.
func (d *tomlDuration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = tomlDuration(parsed)
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "file",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			Mongo: MongoConfig{
				URI: "mongodb://localhost:27017",
			},
		},
		Render: RenderConfig{
			Format: "svg",
		},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error - defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// snapshotDir returns the directory for the file store backend, honoring
// the configured override.
func (c *Config) snapshotDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapshots"), nil
}
