// Package config handles configuration loading and validation for extguard.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/extguard/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Auth       AuthConfig       `yaml:"auth"`
	TUI        TUIConfig        `yaml:"tui"`
	Files      FilesConfig      `yaml:"files"`
	Extensions ExtensionsConfig `yaml:"extensions"`
	Database   DatabaseConfig   `yaml:"database"`
	DataDir    string           `yaml:"-"` // set by caller, not from config file
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig controls the saved login.
type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"` // 0 = keep until logout
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// FilesConfig holds file transfer settings.
type FilesConfig struct {
	DownloadDir     string        `yaml:"download_dir"`      // empty = current directory
	UploadStatusTTL time.Duration `yaml:"upload_status_ttl"` // how long finished uploads stay listed
}

// ExtensionsConfig bounds the blocked-extension lists.
type ExtensionsConfig struct {
	MaxFixed  int `yaml:"max_fixed"`
	MaxCustom int `yaml:"max_custom"`
	MaxLength int `yaml:"max_length"`
}

// DatabaseConfig holds SQLite settings for the local session database.
type DatabaseConfig struct {
	BusyTimeout   int           `yaml:"busy_timeout"`   // milliseconds
	SweepInterval time.Duration `yaml:"sweep_interval"` // how often expired entries are purged
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Files: FilesConfig{
			UploadStatusTTL: 3 * time.Second,
		},
		Extensions: ExtensionsConfig{
			MaxFixed:  9,
			MaxCustom: 200,
			MaxLength: 20,
		},
		Database: DatabaseConfig{
			BusyTimeout:   5000,
			SweepInterval: 5 * time.Minute,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Files.UploadStatusTTL == 0 {
		c.Files.UploadStatusTTL = defaults.Files.UploadStatusTTL
	}
	if c.Extensions.MaxFixed == 0 {
		c.Extensions.MaxFixed = defaults.Extensions.MaxFixed
	}
	if c.Extensions.MaxCustom == 0 {
		c.Extensions.MaxCustom = defaults.Extensions.MaxCustom
	}
	if c.Extensions.MaxLength == 0 {
		c.Extensions.MaxLength = defaults.Extensions.MaxLength
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Database.SweepInterval == 0 {
		c.Database.SweepInterval = defaults.Database.SweepInterval
	}
}

// Validate performs structural validation.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}

	if c.Files.UploadStatusTTL < 0 {
		return fmt.Errorf("files.upload_status_ttl cannot be negative")
	}

	if c.Extensions.MaxFixed < 1 {
		return fmt.Errorf("extensions.max_fixed must be at least 1")
	}
	if c.Extensions.MaxCustom < 1 {
		return fmt.Errorf("extensions.max_custom must be at least 1")
	}
	if c.Extensions.MaxLength < 1 {
		return fmt.Errorf("extensions.max_length must be at least 1")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}
	if c.Database.SweepInterval < 0 {
		return fmt.Errorf("database.sweep_interval cannot be negative")
	}

	if c.Auth.SessionTTL < 0 {
		return fmt.Errorf("auth.session_ttl cannot be negative")
	}

	return nil
}

// DownloadDir returns the directory downloads are written to.
func (c *Config) DownloadDir() string {
	if c.Files.DownloadDir != "" {
		return c.Files.DownloadDir
	}
	return "."
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "extguard.log")
}
