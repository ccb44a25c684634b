// Package config loads the user configuration. Values come from
// config.yaml in the data directory, overridden by PLOTLINE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

type Config struct {
	DefaultProject string    `yaml:"default_project,omitempty" koanf:"default_project"`
	ArcMode        string    `yaml:"arc_mode,omitempty" koanf:"arc_mode"`
	LogLevel       string    `yaml:"log_level,omitempty" koanf:"log_level"`
	Editor         string    `yaml:"editor,omitempty" koanf:"editor"`
	Numbering      Numbering `yaml:"numbering,omitempty" koanf:"numbering"`
}

// Numbering holds the numbering defaults given to new projects.
type Numbering struct {
	Chapters         bool `yaml:"chapters,omitempty" koanf:"chapters"`
	Parts            bool `yaml:"parts,omitempty" koanf:"parts"`
	RomanParts       bool `yaml:"roman_parts,omitempty" koanf:"roman_parts"`
	ResetWithinParts bool `yaml:"reset_within_parts,omitempty" koanf:"reset_within_parts"`
}

const (
	DefaultArcMode  = "strict"
	DefaultLogLevel = "warn"
)

var (
	validArcModes  = []string{"strict", "materialize"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Load reads dataDir/config.yaml if it exists and applies environment
// overrides.
func Load(dataDir string) (*Config, error) {
	k := koanf.New(".")
	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DefaultProject = getEnvOrDefault("PLOTLINE_PROJECT", cfg.DefaultProject, "")
	cfg.ArcMode = getEnvOrDefault("PLOTLINE_ARC_MODE", cfg.ArcMode, DefaultArcMode)
	cfg.LogLevel = getEnvOrDefault("PLOTLINE_LOG_LEVEL", cfg.LogLevel, DefaultLogLevel)
	cfg.Editor = getEnvOrDefault("PLOTLINE_EDITOR", cfg.Editor, "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func getEnvOrDefault(envKey, fileVal, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if fileVal != "" {
		return fileVal
	}
	return defaultVal
}

func (c *Config) Validate() error {
	if !contains(validArcModes, strings.ToLower(c.ArcMode)) {
		return fmt.Errorf("invalid arc_mode %q: must be one of %s", c.ArcMode, strings.Join(validArcModes, ", "))
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func Save(dataDir string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
