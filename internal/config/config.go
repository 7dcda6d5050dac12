// Package config loads the configuration file shared by the command-line tools. Files ending in .toml are parsed as
// TOML; all others are parsed as YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override configuration values.
const EnvPrefix = "HTML_TEXTVIEW_"

// Table drawing modes.
const (
	TableGrid = "grid"
	TableLink = "link"
)

// Image drawing modes.
const (
	ImagesAuto  = "auto"
	ImagesOff   = "off"
	ImagesKitty = "kitty"
	ImagesANSI  = "ansi"
)

// ErrInvalid is wrapped by errors reported for invalid configuration values.
var ErrInvalid = errors.New("invalid configuration")

// Config is the configuration of the command-line tools.
type Config struct {
	// Indent is the list indentation unit. Negative values select the default.
	Indent float64 `toml:"indent" yaml:"indent"`
	// Trim removes trailing newlines from formatted text.
	Trim bool `toml:"trim" yaml:"trim"`
	// Width is the wrap width. Zero selects the terminal width.
	Width int `toml:"width" yaml:"width"`
	// Images selects how images are drawn: auto, off, kitty, or ansi.
	Images string `toml:"images" yaml:"images"`
	// Table selects how tables are drawn: grid or link.
	Table string `toml:"table" yaml:"table"`
	// Theme names the color theme.
	Theme string `toml:"theme" yaml:"theme"`
	// Resources lists the directories searched for images, in order.
	Resources []string `toml:"resources" yaml:"resources"`
	// ResourceDB is the path of a SQLite database of images, searched after Resources.
	ResourceDB string `toml:"resource_db" yaml:"resource_db"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Indent:   -1,
		Images:   ImagesAuto,
		Table:    TableGrid,
		LogLevel: "warn",
	}
}

// Load reads the configuration file at path on top of the defaults and applies environment overrides. An empty path
// loads only the defaults and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data, formatOf(path)); err != nil {
			return nil, fmt.Errorf("parse %v: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration data of the given format ("toml" or "yaml") on top of the defaults.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data, format); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func (c *Config) decode(data []byte, format string) error {
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, format)
	}
	return nil
}

// applyEnv overrides configuration values from HTML_TEXTVIEW_* variables. Each variable holds a YAML scalar or list.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	fields := map[string]any{
		"INDENT":      &c.Indent,
		"TRIM":        &c.Trim,
		"WIDTH":       &c.Width,
		"IMAGES":      &c.Images,
		"TABLE":       &c.Table,
		"THEME":       &c.Theme,
		"RESOURCES":   &c.Resources,
		"RESOURCE_DB": &c.ResourceDB,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for name, field := range fields {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := yaml.Unmarshal([]byte(value), field); err != nil {
			return fmt.Errorf("%w: %v%v: %w", ErrInvalid, EnvPrefix, name, err)
		}
	}
	return nil
}

// Validate checks the enumerated configuration values.
func (c *Config) Validate() error {
	switch c.Images {
	case ImagesAuto, ImagesOff, ImagesKitty, ImagesANSI:
	default:
		return fmt.Errorf("%w: images must be one of auto, off, kitty, or ansi, not %q", ErrInvalid, c.Images)
	}
	switch c.Table {
	case TableGrid, TableLink:
	default:
		return fmt.Errorf("%w: table must be grid or link, not %q", ErrInvalid, c.Table)
	}
	if c.Width < 0 {
		return fmt.Errorf("%w: width must not be negative", ErrInvalid)
	}
	return nil
}
