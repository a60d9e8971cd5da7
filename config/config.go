package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/magicdao/dialect"
)

// DefaultSlowThreshold is used when stats.slow_threshold is not set.
const DefaultSlowThreshold = 100 * time.Millisecond

// Config is the configuration of a data source.
type Config struct {
	// Dialect is one of mysql, postgres or sqlite.
	Dialect string `yaml:"dialect"`

	// Write configures the connection pool used by INSERT, UPDATE and DELETE.
	Write DB `yaml:"write"`

	// Read configures the connection pool used by SELECT. Optional.
	Read *DB `yaml:"read,omitempty"`

	// Stats configures query statistics.
	Stats Stats `yaml:"stats,omitempty"`

	// Debug logs every statement.
	Debug bool `yaml:"debug,omitempty"`
}

// DB configures one connection pool.
type DB struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
}

// Stats configures query statistics.
type Stats struct {
	SlowThreshold time.Duration `yaml:"slow_threshold,omitempty"`
	LogSlow       bool          `yaml:"log_slow,omitempty"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes, completes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.Write.DSN = os.ExpandEnv(cfg.Write.DSN)
	if cfg.Read != nil {
		cfg.Read.DSN = os.ExpandEnv(cfg.Read.DSN)
	}
	if cfg.Stats.SlowThreshold == 0 {
		cfg.Stats.SlowThreshold = DefaultSlowThreshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first problem found in the configuration.
func (c *Config) Validate() error {
	if !slices.Contains([]string{dialect.MySQL, dialect.Postgres, dialect.SQLite}, c.Dialect) {
		return fmt.Errorf("config: unsupported dialect %q", c.Dialect)
	}
	if c.Write.DSN == "" {
		return errors.New("config: write.dsn is required")
	}
	if c.Read != nil && c.Read.DSN == "" {
		return errors.New("config: read.dsn is required when read is set")
	}
	for _, db := range []*DB{&c.Write, c.Read} {
		if db == nil {
			continue
		}
		if db.MaxOpenConns < 0 || db.MaxIdleConns < 0 || db.ConnMaxLifetime < 0 {
			return errors.New("config: pool settings must not be negative")
		}
	}
	if c.Stats.SlowThreshold < 0 {
		return errors.New("config: stats.slow_threshold must not be negative")
	}
	return nil
}

// ReadDB returns the read pool configuration, falling back to Write.
func (c *Config) ReadDB() DB {
	if c.Read != nil {
		return *c.Read
	}
	return c.Write
}
