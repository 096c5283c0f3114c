package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Language selects which title face the board shows: "en" or "es"
	Language string `yaml:"language"`

	// LogFile overrides where the application log is written. Empty
	// means the default location under the user's home directory.
	LogFile string `yaml:"log_file"`

	Sync        SyncConfig  `yaml:"sync"`
	KeyMappings KeyMappings `yaml:"key_mappings"`
}

// SyncConfig tunes the reorder engine's reconciliation behavior
type SyncConfig struct {
	// PendingTTLMS bounds how long an unconfirmed local move is
	// protected from stale snapshots, in milliseconds
	PendingTTLMS int `yaml:"pending_ttl_ms"`

	// TrackedColumnLabel names the column whose card count is cached
	// on the board. Matched case-insensitively against either
	// language face of the column name; empty disables tracking.
	TrackedColumnLabel string `yaml:"tracked_column_label"`
}

// PendingTTL returns the suppression window as a duration.
func (s SyncConfig) PendingTTL() time.Duration {
	return time.Duration(s.PendingTTLMS) * time.Millisecond
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		return Default(), nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Sync.PendingTTLMS <= 0 {
		c.Sync.PendingTTLMS = 5000
	}
	if c.Sync.TrackedColumnLabel == "" {
		c.Sync.TrackedColumnLabel = "Done"
	}
	c.KeyMappings.applyDefaults()
}
