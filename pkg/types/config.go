package types

import "time"

// HTTPConfig holds shared HTTP settings used for calls to the search API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero disables the timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "serpsheet/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OutputFormat selects the result file format.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
)

// HarvestConfig holds everything one run needs. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Custom Search API (required).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EngineID is the programmable search engine identifier, sent as cx (required).
	EngineID string `json:"engine_id" yaml:"engine_id"`

	// Endpoint is the search API URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// MaxResults is the result count requested per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// QueryDelay is the pause between consecutive queries (default 1s).
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`

	// InputPath is the CSV file holding the queries in its first column.
	InputPath string `json:"input" yaml:"input"`

	// OutputDir is where the timestamped result file is created.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the result file format.
	Format OutputFormat `json:"format" yaml:"format"`
}
