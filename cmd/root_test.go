package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeview/internal/config"
	"codeview/internal/log"
)

func readConfig(t *testing.T, path string) config.Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var got config.Config
	require.NoError(t, v.Unmarshal(&got))
	return got
}

func TestDefaultsDecode(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var got config.Config
	require.NoError(t, v.Unmarshal(&got))
	assert.Equal(t, config.Defaults(), got)
}

func TestDefaultTemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	assert.Equal(t, config.Defaults(), readConfig(t, path))
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "theme: monokai\nmode: disassembly\nwatch_debounce: 1s\neditor: vim +{line} {file}\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got := readConfig(t, path)
	assert.Equal(t, "monokai", got.Theme)
	assert.Equal(t, "disassembly", got.Mode)
	assert.Equal(t, time.Second, got.WatchDebounce)
	assert.Equal(t, "vim +{line} {file}", got.Editor)
	assert.Equal(t, "warn", got.Log.Level)
	assert.True(t, got.Watch, "unset keys keep their defaults")
	require.NoError(t, got.Validate())
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { log.SetMinLevel(log.LevelInfo) })

	path := filepath.Join(t.TempDir(), "codeview.log")
	cleanup, err := setupLogging(config.LogConfig{File: path, Level: "warn"})
	require.NoError(t, err)

	assert.False(t, log.Enabled(log.LevelInfo))
	assert.True(t, log.Enabled(log.LevelWarn))

	log.Warn(log.CatConfig, "written to the file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to the file")

	_, err = setupLogging(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestSetupLoggingWithoutFile(t *testing.T) {
	t.Cleanup(func() { log.SetMinLevel(log.LevelInfo) })

	cleanup, err := setupLogging(config.LogConfig{Level: "error"})
	require.NoError(t, err)
	cleanup()
	assert.False(t, log.Enabled(log.LevelWarn))
}

func TestRunAppFailsBeforeStartingTheUI(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	rootCmd.SetContext(context.Background())

	cfg = config.Defaults()
	cfg.Mode = "hex"
	err := runApp(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	cfg = config.Defaults()
	err = runApp(rootCmd, []string{filepath.Join(t.TempDir(), "missing.go")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}
