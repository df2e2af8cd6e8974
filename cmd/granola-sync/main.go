// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the granola-sync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/granola-sync/internal/logging"
	"github.com/pdiddy/granola-sync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultOutputDir is used when neither flag, env, nor config sets output_dir.
const defaultOutputDir = "granola"

// logger carries diagnostics to stderr; it is configured before any
// subcommand runs.
var logger = logging.New(logging.DefaultConfig())

// rootCmd is the base command for the granola-sync CLI.
var rootCmd = &cobra.Command{
	Use:   "granola-sync",
	Short: "Sync Granola meeting notes and transcripts to Markdown",
	Long: `granola-sync reads the Granola desktop app's local cache and writes one
Markdown document per meeting (notes, AI summary, and metadata) plus a
separate transcript document. Synced meetings can also be indexed into a
local SQLite database for full-text search and export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := logging.DefaultConfig()
		if viper.GetBool("verbose") {
			cfg.Level = logging.LevelDebug
		}
		cfg.JSONFormat = viper.GetString("log_format") == "json"
		logger = logging.New(cfg)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./granola-sync.yaml or ~/.config/granola-sync/granola-sync.yaml)")
	rootCmd.PersistentFlags().String("output-dir", defaultOutputDir, "base output directory (contains meetings/, transcripts/, index/)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "console", "diagnostic log format: console or json")

	mustBind("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	mustBind("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	mustBind("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("output_dir", defaultOutputDir)
	viper.SetDefault("days", types.DefaultSyncDays)
	viper.SetDefault("include_transcripts", true)
	viper.SetDefault("index", true)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("granola-sync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "granola-sync"))
		}
	}

	viper.SetEnvPrefix("GRANOLA_SYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// mustBind ties a config key to a flag. Binding only fails on a nil flag,
// which is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// loggerFor returns the diagnostic logger tagged with the running command.
func loggerFor(cmd *cobra.Command) zerolog.Logger {
	return logger.With().Str("cmd", cmd.Name()).Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
