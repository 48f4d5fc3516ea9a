package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"codeview/internal/theme"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidate_Mode(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "Disassembly"
	require.NoError(t, cfg.Validate())

	cfg.Mode = "hex"
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidMode))
}

func TestValidate_Theme(t *testing.T) {
	cfg := Defaults()
	cfg.Theme = "no-such-style"
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, theme.ErrUnknownTheme))
}

func TestValidate_HighlightColor(t *testing.T) {
	cfg := Defaults()
	cfg.HighlightColor = "#FFF3A3"
	require.NoError(t, cfg.Validate())

	cfg.HighlightColor = "yellow"
	require.ErrorContains(t, cfg.Validate(), "highlight_color")
}

func TestValidate_DebounceAndLevel(t *testing.T) {
	cfg := Defaults()
	cfg.WatchDebounce = -time.Second
	require.ErrorContains(t, cfg.Validate(), "watch_debounce")

	cfg = Defaults()
	cfg.Log.Level = "chatty"
	require.ErrorContains(t, cfg.Validate(), "log.level")
}

func TestPaletteHighlightOverride(t *testing.T) {
	cfg := Defaults()
	cfg.HighlightColor = "#123456"

	p, err := cfg.Palette()
	require.NoError(t, err)
	require.Equal(t, "#123456", p.Highlight)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, "nord", parsed["theme"])
	require.Equal(t, "decompiled", parsed["mode"])
	require.Equal(t, true, parsed["watch"])
	require.Equal(t, "200ms", parsed["watch_debounce"])
}

func TestDefaultConfigPath(t *testing.T) {
	require.Equal(t, "config.yaml", filepath.Base(DefaultConfigPath()))
}
