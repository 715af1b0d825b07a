// Package config loads the tracker's optional TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultHTTPTimeout bounds each Stellarium request when http_timeout is unset.
const DefaultHTTPTimeout = "30s"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config mirrors the file format. Zero values mean "not set".
type Config struct {
	// DebugListen is the address for the /debug/ server; empty disables it.
	DebugListen string `toml:"debug_listen"`

	// Verbose enables diagnostic logging on stderr.
	Verbose bool `toml:"verbose"`

	// HTTPTimeout is a duration string like "5s".
	HTTPTimeout string `toml:"http_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{HTTPTimeout: DefaultHTTPTimeout}
}

// Load reads a Config from a TOML file. The path must end in .toml and the
// file must be under 1MB. Unknown keys are rejected so typos do not pass
// silently. Keys omitted from the file keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".toml" {
		return nil, fmt.Errorf("config file must have .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPTimeout != "" {
		d, err := time.ParseDuration(c.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http_timeout '%s': %w", c.HTTPTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
		}
	}
	return nil
}

// GetHTTPTimeout returns HTTPTimeout as a time.Duration, falling back to
// DefaultHTTPTimeout when unset or invalid.
func (c *Config) GetHTTPTimeout() time.Duration {
	fallback, _ := time.ParseDuration(DefaultHTTPTimeout)
	if c == nil || c.HTTPTimeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
