package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/layerkit/pkg/render"
)

// FileName is the config file looked up in the working directory.
const FileName = "layerdemo.yaml"

const (
	defaultLevel      = "info"
	defaultWidth      = 512
	defaultHeight     = 512
	defaultBackground = "white"
)

// Config represents the optional layerdemo.yaml configuration.
type Config struct {
	Log     LogConfig    `yaml:"log"`
	Verbose bool         `yaml:"verbose,omitempty"`
	Render  RenderConfig `yaml:"render"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// RenderConfig contains PNG output settings.
type RenderConfig struct {
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Overrides are command-line values that take precedence over the file.
// Empty values do not override.
type Overrides struct {
	LogLevel string
	Verbose  bool
}

// Resolved contains resolved configuration values.
type Resolved struct {
	LogLevel    zapcore.Level
	Development bool
	Verbose     bool
	Width       int
	Height      int
	Background  string
}

// LoadOptional reads layerdemo.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads the config file at path, which must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Resolve applies overrides and defaults to cfg.
func Resolve(cfg *Config, o Overrides) (*Resolved, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	verbose := o.Verbose || cfg.Verbose

	level := strings.TrimSpace(o.LogLevel)
	if level == "" {
		level = strings.TrimSpace(cfg.Log.Level)
	}
	if level == "" {
		level = defaultLevel
		if verbose {
			level = "debug"
		}
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	width, height := cfg.Render.Width, cfg.Render.Height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("render size must be positive (got %dx%d)", width, height)
	}

	background := strings.TrimSpace(cfg.Render.Background)
	if background == "" {
		background = defaultBackground
	}
	if _, err := render.ParseColor(background); err != nil {
		return nil, fmt.Errorf("render.background: %w", err)
	}

	return &Resolved{
		LogLevel:    parsed,
		Development: cfg.Log.Development,
		Verbose:     verbose,
		Width:       width,
		Height:      height,
		Background:  background,
	}, nil
}
