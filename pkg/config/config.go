// Package config loads Toy interpreter settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toylang/toy/pkg/evaluator"
)

// File names searched by Load.
const (
	ProjectFile = ".toy.yaml"
	UserDir     = ".toy"
	UserFile    = "config.yaml"
)

// Config holds the settings for the CLI and runtime.
type Config struct {
	Prompt      string `yaml:"prompt"`
	History     string `yaml:"history"` // REPL history file; empty disables history
	LogLevel    string `yaml:"logLevel"`
	DebugParse  bool   `yaml:"debugParse"`
	Diagnostics string `yaml:"diagnostics"` // "text" or "json"
	Budget      Budget `yaml:"budget"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Budget mirrors evaluator.Budget on disk.
type Budget struct {
	TimeMs        int64 `yaml:"timeMs"`
	MaxIterations int64 `yaml:"maxIterations"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prompt:      "> ",
		LogLevel:    "warn",
		Diagnostics: "text",
	}
}

// Load resolves configuration with precedence: explicit path → project
// (.toy.yaml in projectDir) → user (~/.toy/config.yaml) → defaults.
// A missing explicit file is an error; missing project or user files are
// skipped. A file that exists but fails to parse is always an error.
func Load(explicit, projectDir string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}

	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserDir, UserFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}

	return Default(), nil
}

// LoadFile reads a single config file. Fields it does not set keep their
// defaults; unknown fields are rejected.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Diagnostics {
	case "text", "json":
	default:
		return fmt.Errorf("diagnostics must be \"text\" or \"json\", got %q", c.Diagnostics)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Budget.TimeMs < 0 {
		return fmt.Errorf("budget.timeMs must not be negative")
	}
	if c.Budget.MaxIterations < 0 {
		return fmt.Errorf("budget.maxIterations must not be negative")
	}
	return nil
}

// Level returns the slog level named by LogLevel, warn if unparseable.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// JSONDiagnostics reports whether diagnostics should be printed as JSON.
func (c *Config) JSONDiagnostics() bool {
	return c.Diagnostics == "json"
}

// EvalBudget converts the budget section for the evaluator.
func (c *Config) EvalBudget() evaluator.Budget {
	return evaluator.Budget{
		TimeMs:        c.Budget.TimeMs,
		MaxIterations: c.Budget.MaxIterations,
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, fmt.Errorf("logLevel: %w", err)
	}
	return level, nil
}
