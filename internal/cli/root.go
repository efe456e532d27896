// Package cli implements the moodify command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moodify-labs/moodify/internal/config"
)

var (
	cfgFile string

	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "moodify",
	Short: "Mood-balanced song recommendations from Spotify audio features",
	Long: `moodify pulls track audio features from the Spotify Web API, trains a
song mood classifier on playlist-labeled data, and recommends tracks to a
user balanced across mood categories.

The pipeline runs as three batch stages over CSV files:

  fetch       build the mood-labeled training dataset
  top-tracks  pull the user's top tracks as the preference signal
  train       train and evaluate the mood classifier
  recommend   produce a mood-balanced recommendation list`,
	SilenceUsage: true,
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentPreRunE = initialize
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./moodify.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("data-dir", "data",
		"directory for dataset CSV files")
}

// initialize wires viper, loads the typed config, and builds the logger.
// Runs before every subcommand.
func initialize(cmd *cobra.Command, _ []string) error {
	v = viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "moodify"))
		}
		v.SetConfigName("moodify")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MOODIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	logger = newLogger(cfg.LogLevel)
	return nil
}

// bindFlags binds cobra flags to viper keys. Flag names map to config
// keys by replacing dashes with underscores.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	for _, flags := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags(), rootCmd.PersistentFlags()} {
		flags.VisitAll(func(f *pflag.Flag) {
			key := flagKey(cmd, f.Name)
			if err := v.BindPFlag(key, f); err != nil {
				lastErr = err
			}
		})
	}
	return lastErr
}

// flagKey maps a flag to its viper config key. Root-level flags map
// directly; subcommand flags are namespaced under the command name.
func flagKey(cmd *cobra.Command, name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	switch name {
	case "log-level", "data-dir", "config":
		return key
	}
	section := strings.ReplaceAll(cmd.Name(), "-", "_")
	return section + "." + key
}

// newLogger builds the process-wide text logger.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
