// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the serpsheet CLI: it reads search
// queries from a CSV file, runs each against the Google Custom Search API,
// and writes the flattened results to a timestamped file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/serpsheet/internal/config"
	"github.com/pdiddy/serpsheet/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// v holds the merged configuration sources for this process.
var v = config.New()

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// configErr records a failure to read an explicitly named config file.
var configErr error

// rootCmd is the base command for the serpsheet CLI.
var rootCmd = &cobra.Command{
	Use:   "serpsheet",
	Short: "Run a list of search queries and export the results",
	Long: `serpsheet reads search queries from the first column of a CSV file,
runs each one against the Google Custom Search JSON API, and writes every
returned item as a row of a new file named search_results_<timestamp>.

Credentials come from GOOGLE_API_KEY and SEARCH_ENGINE_ID (environment or
.env), or from .secrets/google-api-key and .secrets/search-engine-id.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}

		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./serpsheet.yaml or ~/.config/serpsheet/serpsheet.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded into the environment if present")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of credential files")

	v.SetDefault(config.KeyUserAgent, "serpsheet/"+version)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("serpsheet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "serpsheet"))
		}
	}

	err := v.ReadInConfig()
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	case cfgFile != "":
		configErr = fmt.Errorf("reading config file %s: %w", cfgFile, err)
	default:
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

// newLogger returns a human-readable console logger. Colors are used only
// when w is a terminal.
func newLogger(w io.Writer) zerolog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !color,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
