//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleQueries = `query,notes
golang csv encoding,
custom search json api,
golang csv encoding,duplicate on purpose
,blank rows are skipped
`

// Sample writes a small queries.csv to the working directory. An existing
// file is left alone.
func Sample() error {
	if _, err := os.Stat("queries.csv"); err == nil {
		fmt.Println("queries.csv already exists, leaving it alone.")
		return nil
	}
	if err := os.WriteFile("queries.csv", []byte(sampleQueries), 0o644); err != nil {
		return fmt.Errorf("writing queries.csv: %w", err)
	}
	fmt.Println("Wrote queries.csv")
	return nil
}

// Harvest builds the CLI and runs it against queries.csv. Credentials come
// from the usual places (.env, environment, .secrets/).
func Harvest() error {
	mg.Deps(Build)
	return sh.RunV("./"+binDir+"/"+binName, "run")
}
