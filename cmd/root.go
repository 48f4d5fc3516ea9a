package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeview/internal/analysis"
	"codeview/internal/app"
	"codeview/internal/config"
	"codeview/internal/log"
	"codeview/internal/source"
	"codeview/internal/watcher"
)

func init() {
	// Query the terminal background before bubbletea owns stdin, otherwise the
	// OSC 11 reply can leak into the input as garbage.
	_ = lipgloss.HasDarkBackground()
}

const localConfigFile = ".codeview.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codeview [file]",
	Short: "A terminal code view with live word highlighting and rename",
	Long: `codeview shows the functions of a Go or C file (other files are shown whole) as
token-annotated code. The word under the caret is highlighted everywhere, functions
and locals can be renamed in place, and the file is reloaded when it changes.

Without a file a small demo analysis is shown.`,
	Args:         cobra.MaximumNArgs(1),
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.codeview.yaml, then ~/.config/codeview/config.yaml)")
	rootCmd.Flags().String("theme", "", "chroma style for the code view (e.g. nord, monokai, github)")
	rootCmd.Flags().String("mode", "", "initial rendition: decompiled or disassembly")
	rootCmd.Flags().Bool("no-watch", false, "do not reload the file when it changes on disk")
	rootCmd.Flags().String("log-file", "", "write the log to this file")
	rootCmd.Flags().Bool("debug", false, "log at debug level (to debug.log unless --log-file is set)")

	_ = viper.BindPFlag("theme", rootCmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("log.file", rootCmd.Flags().Lookup("log-file"))
	_ = viper.BindPFlag("log.debug", rootCmd.Flags().Lookup("debug"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("codeview")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .codeview.yaml (current directory)
		// 2. ~/.config/codeview/config.yaml (user config)
		if _, err := os.Stat(localConfigFile); err == nil {
			viper.SetConfigFile(localConfigFile)
		} else {
			viper.AddConfigPath(filepath.Dir(config.DefaultConfigPath()))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run: leave a commented default config for the user to edit.
			defaultPath := config.DefaultConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		} else {
			log.Warn(log.CatConfig, "config not read, using defaults", "error", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.ErrorErr(log.CatConfig, "config does not decode", err)
	}
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("mode", defaults.Mode)
	v.SetDefault("highlight_color", defaults.HighlightColor)
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)
	v.SetDefault("editor", defaults.Editor)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.debug", defaults.Log.Debug)
	v.SetDefault("log.level", defaults.Log.Level)
}

func runApp(cmd *cobra.Command, args []string) error {
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := app.Options{Config: cfg, ConfigPath: configPath()}
	if len(args) == 0 {
		opts.Analysis = analysis.Demo()
	} else {
		file, err := source.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		opts.File = file
		opts.Analysis = file.Analysis()

		if cfg.Watch {
			w, err := watcher.New(watcher.Config{Path: file.Path(), Debounce: cfg.WatchDebounce})
			if err != nil {
				return fmt.Errorf("watching %s: %w", file.Path(), err)
			}
			changes, err := w.Start()
			if err != nil {
				_ = w.Stop()
				return fmt.Errorf("watching %s: %w", file.Path(), err)
			}
			defer func() { _ = w.Stop() }()
			opts.Changes = changes
		}
	}

	model, err := app.New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogging applies the level and opens the log file when one is asked for.
// Entries always reach the in-app console.
func setupLogging(lc config.LogConfig) (func(), error) {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if lc.Debug {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)

	path := lc.File
	if path == "" && lc.Debug {
		path = "debug.log"
	}
	if path == "" {
		return func() {}, nil
	}

	cleanup, err := log.Init(path)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "codeview starting", "version", version, "level", level, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// configPath is where theme changes are saved.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultConfigPath()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
