// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubrank CLI, which ranks
// universities, authors and journals by publication counts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/pubrank/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger  = zap.NewNop()
	verbose bool
)

// rootCmd is the base command for the pubrank CLI.
var rootCmd = &cobra.Command{
	Use:   "pubrank",
	Short: "Rank universities, authors and journals by publication counts",
	Long: `pubrank loads a dataset of academic publication records and produces
ranking tables. Rankings are filtered by year range, discipline, journal
group (UTD24, FT50) and journal; a name search narrows the table without
changing anyone's rank.

Datasets are JSON or YAML lists of records, read from disk or over HTTP, and
can be cached in a local SQLite store with "pubrank store ingest".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubrank.yaml or ~/.config/pubrank/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubrank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubrank"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("PUBRANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "pubrank/"+version)
	viper.SetDefault("http.max_retries", 5)
	viper.SetDefault("data.universities", "data/universitiesSub.json")
	viper.SetDefault("data.authors", "data/authorsSub.json")
	viper.SetDefault("ranking.limit", 100)
	viper.SetDefault("journals.top", 3)
	viper.SetDefault("store.dir", ".pubrank")
	viper.SetDefault("log.level", "warn")
}

// loadConfig decodes the merged viper settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true

	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
