// Package config loads the nable CLI configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/nable/internal/engine"
)

// Config is the full CLI configuration.
type Config struct {
	// DB is the SQLite database path. Empty means the default location.
	DB string `yaml:"db"`

	Log LogConfig `yaml:"log"`

	// RecentAttempts is how many of a learner's latest answers count as
	// recently attempted when recommending.
	RecentAttempts int `yaml:"recent_attempts"`

	Engine engine.Config `yaml:"engine"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Mode     string `yaml:"mode"`      // dev, prod or nop
	HashIDs  bool   `yaml:"hash_ids"`  // hash learner and session IDs in log output
	HashSalt string `yaml:"hash_salt"` // salts hashed learner and session IDs
}

// ValidLogModes lists the accepted log modes.
var ValidLogModes = []string{"dev", "prod", "nop"}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log:            LogConfig{Mode: "nop", HashIDs: true},
		RecentAttempts: 10,
		Engine:         engine.DefaultConfig(),
	}
}

// DefaultConfigPath resolves the config file path in priority order:
// 1. NABLE_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/nable/config.yaml
// 3. ~/.config/nable/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv("NABLE_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nable", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if path := os.Getenv("NABLE_DB"); path != "" {
		c.DB = path
	}
	if mode := os.Getenv("NABLE_LOG_MODE"); mode != "" {
		c.Log.Mode = mode
	}
	if salt := os.Getenv("NABLE_LOG_SALT"); salt != "" {
		c.Log.HashSalt = salt
	}
	if v := os.Getenv("NABLE_MAX_HEARTS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("NABLE_MAX_HEARTS: %w", err)
		}
		c.Engine.Session.MaxHearts = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validMode := false
	for _, m := range ValidLogModes {
		if strings.EqualFold(c.Log.Mode, m) {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid log mode: %s (valid: %v)", c.Log.Mode, ValidLogModes)
	}
	if c.RecentAttempts < 0 {
		return fmt.Errorf("recent_attempts must be >= 0, got %d", c.RecentAttempts)
	}
	return c.Engine.Validate()
}
