// Package config handles configuration loading and validation for tripsort.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tripsort/internal/dateparser"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidTOML     ConfigErrorType = "INVALID_TOML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// StoreConfig selects the transaction log backend.
// The Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"`           // "memory", "filesystem", or "sqlite"
	Path string `toml:"path,omitempty"` // directory (filesystem) or db file (sqlite)
}

// WatchConfig holds settings for the ingest watcher.
type WatchConfig struct {
	DebounceSeconds int      `toml:"debounce_seconds"`
	IgnorePatterns  []string `toml:"ignore_patterns"`
}

// Config holds all settings for tripsort.
type Config struct {
	ProjectName string      `toml:"project_name"`
	RootPath    string      `toml:"root_path"`
	TripStart   string      `toml:"trip_start,omitempty"` // YYYY-MM-DD
	TripEnd     string      `toml:"trip_end,omitempty"`   // YYYY-MM-DD
	Store       StoreConfig `toml:"store"`
	Watch       WatchConfig `toml:"watch"`
}

// Default returns a Config with sensible defaults for the given project.
func Default(projectName, rootPath string) *Config {
	return &Config{
		ProjectName: projectName,
		RootPath:    rootPath,
		Store: StoreConfig{
			Type: "filesystem",
			Path: filepath.Join(rootPath, ".tripsort"),
		},
		Watch: WatchConfig{
			DebounceSeconds: 2,
		},
	}
}

// Validate checks that the configuration has all required fields and that
// the optional ones are well formed.
func (c *Config) Validate() error {
	if c.ProjectName == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "project_name cannot be empty",
		}
	}
	if c.RootPath == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "root_path cannot be empty",
		}
	}

	if c.TripStart != "" {
		if _, err := dateparser.ParseIsoDate(c.TripStart); err != nil {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("trip_start is not a valid date: %s", c.TripStart),
			}
		}
	}
	if c.TripEnd != "" {
		end, err := dateparser.ParseIsoDate(c.TripEnd)
		if err != nil {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("trip_end is not a valid date: %s", c.TripEnd),
			}
		}
		if c.TripStart != "" {
			start, _ := dateparser.ParseIsoDate(c.TripStart)
			if end.Time().Before(start.Time()) {
				return &ConfigError{
					Type:    ValidationError,
					Message: "trip_end cannot be before trip_start",
				}
			}
		}
	}

	switch c.Store.Type {
	case "", "memory", "filesystem", "sqlite":
	default:
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("unknown store type: %s", c.Store.Type),
		}
	}
	if (c.Store.Type == "filesystem" || c.Store.Type == "sqlite") && c.Store.Path == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("store type %s requires a path", c.Store.Type),
		}
	}

	if c.Watch.DebounceSeconds < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watch debounce_seconds cannot be negative",
		}
	}

	return nil
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, &ConfigError{
			Type:    InvalidTOML,
			Message: err.Error(),
		}
	}
	return &cfg, nil
}

// Load reads, parses and validates a configuration file from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: path,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    path,
			Message: err.Error(),
		}
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save serializes and writes a configuration to the given path, creating
// the parent directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return &ConfigError{
			Type:    InvalidTOML,
			Message: err.Error(),
		}
	}
	return nil
}
