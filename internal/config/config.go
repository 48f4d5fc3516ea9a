// Package config provides configuration types, defaults and validation for codeview.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeview/internal/log"
	"codeview/internal/theme"
)

var ErrInvalidMode = errors.New("invalid mode")

// Config holds all configuration options for codeview.
type Config struct {
	Theme          string        `mapstructure:"theme"`
	Mode           string        `mapstructure:"mode"`            // "decompiled" (default) or "disassembly"
	HighlightColor string        `mapstructure:"highlight_color"` // overrides the theme's word highlight, e.g. "#5E5A36"
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
	Editor         string        `mapstructure:"editor"` // supports {file} {line} {col} {target} {symbol}; empty tries zed, then the OS opener
	Log            LogConfig     `mapstructure:"log"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"` // debug, info, warn or error
}

func Defaults() Config {
	return Config{
		Theme:         "nord",
		Mode:          "decompiled",
		Watch:         true,
		WatchDebounce: 200 * time.Millisecond,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every field and reports the first problem.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "decompiled", "disassembly":
	default:
		return fmt.Errorf("%w %q (use decompiled or disassembly)", ErrInvalidMode, c.Mode)
	}

	if _, err := theme.Load(c.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	if c.HighlightColor != "" && !theme.IsHexColor(c.HighlightColor) {
		return fmt.Errorf("highlight_color %q is not a #RRGGBB colour", c.HighlightColor)
	}

	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Palette resolves the theme and applies the highlight override.
func (c Config) Palette() (theme.Palette, error) {
	p, err := theme.Load(c.Theme)
	if err != nil {
		return theme.Palette{}, err
	}
	if c.HighlightColor != "" {
		p.Highlight = c.HighlightColor
	}
	return p, nil
}

// DefaultConfigPath is the user-level config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "codeview", "config.yaml")
	}
	return filepath.Join(home, ".config", "codeview", "config.yaml")
}

// DefaultConfigTemplate returns the default config as YAML with comments.
func DefaultConfigTemplate() string {
	return `# codeview configuration

# Chroma style used for the code view and panels (e.g. nord, monokai, github)
theme: nord

# Initial rendition: decompiled or disassembly
mode: decompiled

# Background of the word highlight; empty derives it from the theme
# highlight_color: "#5E5A36"

# Reload the file when it changes on disk
watch: true
watch_debounce: 200ms

# Command used by "open in editor"; {file} {line} {col} {target} {symbol} are substituted
# editor: code -g {target}

log:
  # file: /tmp/codeview.log
  debug: false
  level: info
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
