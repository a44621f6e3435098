// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-ingest CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-ingest/internal/observability"
	"github.com/pdiddy/paper-ingest/internal/secrets"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Loaded in PersistentPreRunE; every subcommand reads them.
var (
	cfg           types.PipelineConfig
	loadedSecrets secrets.Secrets
	logger        zerolog.Logger
)

// rootCmd is the base command for the paper-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-ingest",
	Short: "Resolve, normalize and store paper metadata",
	Long: `paper-ingest resolves noisy paper references (arXiv codes or titles)
against external catalogs, accepts a match only when its title similarity
clears a fixed threshold, and stores the normalized record.

The ingest subcommand drains a queue kept in a GitHub gist or a local file;
resolve, store, summary and preprocess expose the individual steps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLogger(cfg.Log, os.Stderr)

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug().Strs("keys", s.Keys()).Msg("loaded secrets")
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}

		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-ingest.yaml or ~/.config/paper-ingest/paper-ingest.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of one-value-per-file secrets")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-ingest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-ingest"))
		}
	}

	viper.SetEnvPrefix("PAPER_INGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
