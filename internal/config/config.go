// Package config loads the TOML configuration file cmd/schemadrift reads
// its defaults from, so repeated invocations (plan, apply, export against
// the same database) don't need every flag respelled each time.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of a schemadrift.toml file.
type Config struct {
	Dialect string `toml:"dialect"`
	DSN     string `toml:"dsn"`

	EnableDrop bool `toml:"enable_drop"`

	Logging LoggingConfig `toml:"logging"`
}

// LoggingConfig controls internal/logging's logger construction.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error; default info
	Format string `toml:"format"` // text or json; default text
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Dialect:    "mysql",
		EnableDrop: true,
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads and decodes a TOML config file at path. Fields the file
// omits keep Default()'s value rather than zeroing out.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unrecognized key(s): %v", path, undecoded)
	}
	return cfg, nil
}
