// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queries loads the list of search queries from a CSV file.
// The first row is a header; queries come from the first column, whatever
// its name. Other columns are ignored.
package queries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrUnreadable wraps any failure to open or parse the input file.
	ErrUnreadable = errors.New("could not read query file")

	// ErrNoQueryColumn is returned when the file has no header, no columns,
	// or no data rows.
	ErrNoQueryColumn = errors.New("no query column found in input")
)

// nullMarkers are cell values treated as missing, matching the defaults of
// common spreadsheet CSV readers.
var nullMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNull reports whether a cell value counts as missing.
func IsNull(v string) bool {
	return nullMarkers[v]
}

const utf8BOM = "\ufeff"

// Load reads path and returns the distinct non-null values of its first
// column in first-occurrence order. Values are otherwise passed through
// untouched: no trimming, no case folding.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnreadable, path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read is Load for an already-open reader.
func Read(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrNoQueryColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	if len(header) == 1 && header[0] == "" {
		return nil, fmt.Errorf("%w: header has no columns", ErrNoQueryColumn)
	}

	seen := make(map[string]bool)
	var out []string
	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		rows++

		q := record[0]
		if IsNull(q) || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}

	if rows == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrNoQueryColumn)
	}
	return out, nil
}
