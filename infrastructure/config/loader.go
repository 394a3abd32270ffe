// Package config provides configuration loading and parsing for agent-shell.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/agent-shell/domain/config"
)

// Loader loads shell configuration from files. Keys absent from the file
// keep the values of config.Default.
type Loader struct {
	// ExpandEnv enables environment variable expansion.
	ExpandEnv bool
	// StrictEnv fails if referenced env vars are missing.
	StrictEnv bool
	// Validate enables configuration validation.
	Validate bool
	// Lookup resolves variables during expansion, os.LookupEnv when nil.
	Lookup LookupFunc
}

// NewLoader creates a new configuration loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		ExpandEnv: true,
		StrictEnv: false,
		Validate:  true,
	}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// WithValidation enables or disables configuration validation.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.Validate = enabled
	}
}

// WithLookup resolves variables through fn instead of the process environment.
func WithLookup(fn LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.Lookup = fn
	}
}

// NewLoaderWithOptions creates a loader with the specified options.
func NewLoaderWithOptions(opts ...LoaderOption) *Loader {
	l := NewLoader()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadOrDefault loads the file at path, or returns the validated defaults
// when path is empty.
func (l *Loader) LoadOrDefault(path string) (*config.ShellConfig, error) {
	if path == "" {
		cfg := config.Default()
		if err := l.validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return l.LoadFile(path)
}

// LoadFile loads configuration from a file path.
func (l *Loader) LoadFile(path string) (*config.ShellConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", config.ErrInvalidFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	return l.Load(f, format)
}

// Format represents a configuration file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, ext)
	}
}

// Load loads configuration from a reader.
func (l *Loader) Load(r io.Reader, format Format) (*config.ShellConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if l.ExpandEnv {
		expanded, err := ExpandWith(string(data), l.Lookup, l.StrictEnv)
		if err != nil {
			return nil, err
		}
		data = []byte(expanded)
	}

	cfg := config.Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, format)
	}

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) validate(cfg *config.ShellConfig) error {
	if !l.Validate {
		return nil
	}
	if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
		return fmt.Errorf("%w: %v", config.ErrValidationFailed, errs)
	}
	return nil
}

// LoadString loads configuration from a string.
func (l *Loader) LoadString(content string, format Format) (*config.ShellConfig, error) {
	return l.Load(strings.NewReader(content), format)
}
