// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for stylist.
//
// Configuration lives in ~/.stylist/config.toml, with sensible defaults
// and environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete stylist configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// UI settings
	UI UIConfig `toml:"ui"`

	// Storage settings
	Storage StorageConfig `toml:"storage"`

	// Debug settings
	Debug DebugConfig `toml:"debug"`
}

// ServerConfig contains stylist service connection settings.
type ServerConfig struct {
	// URL is the base URL of the stylist service
	URL string `toml:"url"`
	// TimeoutSecs is the request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// DevMode enables the offline mock account; no auth calls are made
	DevMode bool `toml:"dev_mode"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light"
	Theme string `toml:"theme"`
	// SidebarOpen shows the chat list on startup
	SidebarOpen bool `toml:"sidebar_open"`
	// Markdown renders assistant replies through the markdown renderer
	Markdown bool `toml:"markdown"`
}

// StorageConfig contains local archive settings.
type StorageConfig struct {
	// ArchivePath is the SQLite archive location (empty = ~/.stylist/archive.db)
	ArchivePath string `toml:"archive_path"`
	// PrefsPath is the preferences file location (empty = ~/.stylist/prefs.json)
	PrefsPath string `toml:"prefs_path"`
}

// DebugConfig contains debug logging settings.
type DebugConfig struct {
	// LogFile enables debug logging to the given file when non-empty
	LogFile string `toml:"log_file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			Theme:       "dark",
			SidebarOpen: true,
			Markdown:    true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the stylist configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".stylist"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ArchivePath returns the configured or default archive location.
func (c *Config) ArchivePath() (string, error) {
	if c.Storage.ArchivePath != "" {
		return c.Storage.ArchivePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "archive.db"), nil
}

// PrefsPath returns the configured or default preferences location.
func (c *Config) PrefsPath() (string, error) {
	if c.Storage.PrefsPath != "" {
		return c.Storage.PrefsPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prefs.json"), nil
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when none exists.
// Environment overrides are applied last, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit file path. A missing
// file yields defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields a partial file left zero.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.URL == "" {
		c.Server.URL = def.Server.URL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// Save writes the configuration to the default path with 0600 permissions.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if the file already existed.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# stylist configuration file")
	fmt.Fprintln(file, "# Generated by stylist - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies STYLIST_* environment variables over the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STYLIST_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("STYLIST_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("STYLIST_DEV_MODE"); v != "" {
		c.Server.DevMode = parseBool(v)
	}
	if v := os.Getenv("STYLIST_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("STYLIST_DEBUG_LOG"); v != "" {
		c.Debug.LogFile = v
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url must be a full URL, got %q", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url scheme must be http or https, got %q", u.Scheme)
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		return fmt.Errorf("server.timeout_secs must be between 1 and 600, got %d", c.Server.TimeoutSecs)
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	return nil
}
