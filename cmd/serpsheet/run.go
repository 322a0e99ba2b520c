// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/serpsheet/internal/config"
	"github.com/pdiddy/serpsheet/internal/google"
	"github.com/pdiddy/serpsheet/internal/harvest"
	"github.com/pdiddy/serpsheet/internal/output"
	"github.com/pdiddy/serpsheet/internal/queries"
	"github.com/pdiddy/serpsheet/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search every query in the input file and write the results",
	Long: `Run loads the distinct queries from the first column of the input CSV,
searches them one at a time with a pause in between, and writes all returned
items to search_results_<timestamp> in the output directory.

A query whose search fails is logged and contributes no rows. When no query
returns anything, no file is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, loadedSecrets)
		if err != nil {
			return err
		}
		log := newLogger(cmd.OutOrStdout())
		return runHarvest(cmd.Context(), cfg, google.New(cfg), log, cmd.OutOrStdout())
	},
}

func init() {
	f := runCmd.Flags()
	f.String("input", "", "CSV file with queries in the first column (default queries.csv)")
	f.String("output-dir", "", "directory for the result file (default .)")
	f.String("format", "", "result file format: csv, json, yaml, or sqlite (default csv)")
	f.Int("max-results", 0, "results requested per query (default MAX_SEARCHES or 10)")
	f.Duration("delay", 0, "pause between queries; an explicit 0 disables it (default 1s)")
	f.Duration("timeout", 0, "HTTP request timeout; an explicit 0 disables it (default 30s)")
	f.String("endpoint", "", "search API endpoint")

	bindFlags(runCmd, map[string]string{
		"input":       config.KeyInput,
		"output-dir":  config.KeyOutputDir,
		"format":      config.KeyFormat,
		"max-results": config.KeyMaxResults,
		"delay":       config.KeyDelay,
		"timeout":     config.KeyTimeout,
		"endpoint":    config.KeyEndpoint,
	})

	rootCmd.AddCommand(runCmd)
}

// bindFlags ties command flags to configuration keys. Flags only take
// effect when given on the command line.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// runHarvest is the whole pipeline: load queries, search each, write rows.
func runHarvest(ctx context.Context, cfg types.HarvestConfig, s harvest.Searcher, log zerolog.Logger, w io.Writer) error {
	start := time.Now()

	qs, err := queries.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(qs)).Str("input", cfg.InputPath).Msg("Loaded queries")

	sum, err := harvest.New(s, cfg, log).Run(ctx, qs)
	if err != nil {
		return fmt.Errorf("run interrupted, no results written: %w", err)
	}
	if sum.Failed > 0 {
		log.Warn().Int("failed", sum.Failed).Int("queries", sum.Queries).Msg("Some queries failed")
	}

	path, err := output.Write(ctx, cfg.OutputDir, start, cfg.Format, sum.Rows)
	if errors.Is(err, output.ErrNoRows) {
		log.Error().Msg("No results returned.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Finished: %d results written to '%s'\n", len(sum.Rows), path)
	return nil
}
