// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs each query against a search backend in order and
// flattens the returned items into result rows.
package harvest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/serpsheet/pkg/types"
)

// DefaultDelay is the pause between consecutive queries.
const DefaultDelay = time.Second

// Searcher runs one query against a search API.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.ResultItem, error)
}

// Summary is the outcome of a run.
type Summary struct {
	Rows    []types.ResultRow
	Queries int
	// Failed counts queries whose search returned an error.
	Failed int
}

// Harvester drives a Searcher over a list of queries.
type Harvester struct {
	Searcher   Searcher
	MaxResults int
	// Delay is the pause after each query except the last. Zero disables it.
	Delay time.Duration
	Log   zerolog.Logger
	// Now supplies row timestamps. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Harvester configured from cfg.
func New(s Searcher, cfg types.HarvestConfig, log zerolog.Logger) *Harvester {
	return &Harvester{
		Searcher:   s,
		MaxResults: cfg.MaxResults,
		Delay:      cfg.QueryDelay,
		Log:        log,
	}
}

// Run searches every query sequentially. A failed search is logged and
// contributes no rows; the run moves on to the next query. Run only returns
// an error when ctx is cancelled, in which case the rows gathered so far are
// discarded.
func (h *Harvester) Run(ctx context.Context, queries []string) (Summary, error) {
	now := h.Now
	if now == nil {
		now = time.Now
	}

	var sum Summary
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		h.Log.Info().Str("query", q).Msg("Searching")
		items, err := h.Searcher.Search(ctx, q, h.MaxResults)
		if err != nil {
			if ctx.Err() != nil {
				return Summary{}, ctx.Err()
			}
			h.Log.Error().Err(err).Str("query", q).Msg("Failed query")
			sum.Failed++
			items = nil
		}
		sum.Queries++
		sum.Rows = append(sum.Rows, Flatten(q, items, now())...)

		if i < len(queries)-1 {
			if err := sleep(ctx, h.Delay); err != nil {
				return Summary{}, err
			}
		}
	}
	return sum, nil
}

// Flatten turns the items returned for query into rows ranked 1..len(items)
// in API order. Missing fields become empty strings.
func Flatten(query string, items []types.ResultItem, at time.Time) []types.ResultRow {
	if len(items) == 0 {
		return nil
	}
	ts := at.Format(types.TimestampLayout)
	rows := make([]types.ResultRow, len(items))
	for i, it := range items {
		rows[i] = types.ResultRow{
			Query:           query,
			ResultRank:      i + 1,
			Title:           it.Field(types.FieldTitle),
			Snippet:         it.Field(types.FieldSnippet),
			Link:            it.Field(types.FieldLink),
			DisplayLink:     it.Field(types.FieldDisplayLink),
			FormattedURL:    it.Field(types.FieldFormattedURL),
			SearchTimestamp: ts,
		}
	}
	return rows
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
