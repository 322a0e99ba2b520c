// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the serpsheet pipeline:
// the raw items returned by the search API and the flattened rows written
// to the output file.
package types

import (
	"fmt"
	"strconv"
)

// ResultItem is one entry of the search API's items list. It is kept as an
// unstructured field mapping; consumers pull the fields they need with Field.
type ResultItem map[string]any

// Field returns the named field as a string. Absent fields and JSON nulls
// yield the empty string, never an error.
func (it ResultItem) Field(name string) string {
	v, ok := it[name]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

// API field names read from each ResultItem.
const (
	FieldTitle        = "title"
	FieldSnippet      = "snippet"
	FieldLink         = "link"
	FieldDisplayLink  = "displayLink"
	FieldFormattedURL = "formattedUrl"
)

// ResultRow is a single flattened search result: one row per returned item,
// with the query text and its 1-based rank repeated on every row.
type ResultRow struct {
	Query        string `json:"query" yaml:"query"`
	ResultRank   int    `json:"result_rank" yaml:"result_rank"`
	Title        string `json:"title" yaml:"title"`
	Snippet      string `json:"snippet" yaml:"snippet"`
	Link         string `json:"link" yaml:"link"`
	DisplayLink  string `json:"display_link" yaml:"display_link"`
	FormattedURL string `json:"formatted_url" yaml:"formatted_url"`

	// SearchTimestamp is captured when the row is built, not when the
	// request was sent.
	SearchTimestamp string `json:"search_timestamp" yaml:"search_timestamp"`
}

// ResultColumns is the output column order.
var ResultColumns = []string{
	"query",
	"result_rank",
	"title",
	"snippet",
	"link",
	"display_link",
	"formatted_url",
	"search_timestamp",
}

// Record returns the row's values in ResultColumns order.
func (r ResultRow) Record() []string {
	return []string{
		r.Query,
		strconv.Itoa(r.ResultRank),
		r.Title,
		r.Snippet,
		r.Link,
		r.DisplayLink,
		r.FormattedURL,
		r.SearchTimestamp,
	}
}

// TimestampLayout formats SearchTimestamp: local time, ISO-8601, microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"
