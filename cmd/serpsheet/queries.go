// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/serpsheet/internal/config"
	"github.com/pdiddy/serpsheet/internal/queries"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List the distinct queries a run would search",
	Long: `Queries loads the input CSV exactly as run does and prints one query per
line, without contacting the search API. Credentials are not required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = v.GetString(config.KeyInput)
		}
		qs, err := queries.Load(input)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, q := range qs {
			fmt.Fprintln(out, q)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d queries in %s\n", len(qs), input)
		return nil
	},
}

func init() {
	queriesCmd.Flags().String("input", "", "CSV file with queries in the first column (default queries.csv)")
	rootCmd.AddCommand(queriesCmd)
}
