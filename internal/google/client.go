// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package google queries the Google Custom Search JSON API.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/serpsheet/internal/httputil"
	"github.com/pdiddy/serpsheet/pkg/types"
)

// DefaultEndpoint is the Custom Search JSON API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// DefaultMaxResults is used when neither the caller nor the configuration
// asks for a result count.
const DefaultMaxResults = 10

// APIError is a non-2xx answer from the search API.
type APIError struct {
	StatusCode int
	// Message is the API's own error message when the body carried one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("search API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("search API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Client sends one GET per query to the search API.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	EngineID   string
	Endpoint   string
	UserAgent  string
	// MaxResults is the default count when Search gets maxResults <= 0.
	MaxResults int
}

// New builds a Client from the run configuration.
func New(cfg types.HarvestConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		APIKey:     cfg.APIKey,
		EngineID:   cfg.EngineID,
		Endpoint:   cfg.Endpoint,
		UserAgent:  cfg.UserAgent,
		MaxResults: cfg.MaxResults,
	}
}

// Search runs query and returns the items of the response, in API order.
// A response without an items field yields an empty, non-nil slice.
// maxResults is sent as num without clamping; values the API rejects come
// back as an *APIError.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]types.ResultItem, error) {
	if maxResults <= 0 {
		maxResults = c.MaxResults
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	params := url.Values{
		"key": {c.APIKey},
		"cx":  {c.EngineID},
		"q":   {query},
		"num": {strconv.Itoa(maxResults)},
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var resp searchResponse
	err := httputil.GetJSON(ctx, client, endpoint+"?"+params.Encode(), c.UserAgent, &resp)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return nil, &APIError{StatusCode: se.StatusCode, Message: errorMessage(se.Body)}
		}
		return nil, fmt.Errorf("search API request: %w", err)
	}

	if resp.Items == nil {
		return []types.ResultItem{}, nil
	}
	return resp.Items, nil
}

// errorMessage pulls error.message out of a Google API error body.
func errorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}

// searchResponse is the part of the Custom Search response that is read.
type searchResponse struct {
	Items []types.ResultItem `json:"items"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
