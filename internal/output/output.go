// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes the rows of a run to a new, timestamped file.
package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/serpsheet/pkg/types"
)

// ErrNoRows is returned by Write when there is nothing to write. No file
// is created in that case.
var ErrNoRows = errors.New("no results returned")

const (
	filePrefix = "search_results_"
	// fileTimeLayout is ISO-8601 with ':' replaced by '-' and fractional
	// seconds dropped, so the name is valid on every filesystem.
	fileTimeLayout = "2006-01-02T15-04-05"
)

// ParseFormat validates a format name. The empty string selects CSV.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return types.FormatCSV, nil
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use csv, json, yaml, or sqlite", s)
	}
}

// Extension returns the file extension for f, including the dot.
func Extension(f types.OutputFormat) string {
	switch f {
	case types.FormatJSON:
		return ".json"
	case types.FormatYAML:
		return ".yaml"
	case types.FormatSQLite:
		return ".db"
	default:
		return ".csv"
	}
}

// Filename returns the result file name for a run that started at start.
// Runs started within the same second get the same name.
func Filename(start time.Time, f types.OutputFormat) string {
	return filePrefix + start.Format(fileTimeLayout) + Extension(f)
}

// Write creates dir/Filename(start, f) holding rows and returns its path.
// An empty rows slice returns ErrNoRows and leaves the filesystem alone.
func Write(ctx context.Context, dir string, start time.Time, f types.OutputFormat, rows []types.ResultRow) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, Filename(start, f))

	if f == types.FormatSQLite {
		if err := writeSQLite(ctx, path, start, rows); err != nil {
			return "", err
		}
		return path, nil
	}

	var encode func(io.Writer, []types.ResultRow) error
	switch f {
	case types.FormatCSV, "":
		encode = writeCSV
	case types.FormatJSON:
		encode = writeJSON
	case types.FormatYAML:
		encode = writeYAML
	default:
		return "", fmt.Errorf("unsupported format %q", f)
	}

	if err := writeAtomic(path, func(w io.Writer) error { return encode(w, rows) }); err != nil {
		return "", err
	}
	return path, nil
}

// writeAtomic writes to a temp file next to path, then renames it into place.
func writeAtomic(path string, fill func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".serpsheet-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	fillErr := fill(tmpFile)
	closeErr := tmpFile.Close()
	if fillErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing results: %w", fillErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rows []types.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.ResultColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, rows []types.ResultRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeYAML(w io.Writer, rows []types.ResultRow) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}
