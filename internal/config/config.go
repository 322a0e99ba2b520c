// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the run configuration from secrets files, the
// config file, the environment, and command-line flags.
//
// Precedence, highest first: flags, environment (including values loaded
// from .env), config file, .secrets/ files, built-in defaults.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/pdiddy/serpsheet/internal/google"
	"github.com/pdiddy/serpsheet/internal/harvest"
	"github.com/pdiddy/serpsheet/internal/output"
	"github.com/pdiddy/serpsheet/internal/secrets"
	"github.com/pdiddy/serpsheet/pkg/types"
)

// Viper keys.
const (
	KeyAPIKey     = "google_api_key"
	KeyEngineID   = "search_engine_id"
	KeyMaxResults = "max_searches"
	KeyEndpoint   = "endpoint"
	KeyDelay      = "delay"
	KeyTimeout    = "timeout"
	KeyInput      = "input"
	KeyOutputDir  = "output_dir"
	KeyFormat     = "format"
	KeyUserAgent  = "user_agent"
)

// EnvPrefix namespaces environment variables for keys that have no
// well-known name of their own.
const EnvPrefix = "SERPSHEET"

const (
	DefaultTimeout   = 30 * time.Second
	DefaultInput     = "queries.csv"
	DefaultOutputDir = "."
	DefaultUserAgent = "serpsheet/dev"
)

// MissingError reports a required setting that no source provided.
type MissingError struct {
	// Env is the environment variable that would supply the value.
	Env string
	// SecretFile is the .secrets/ file that would supply the value.
	SecretFile string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing %s: set it in the environment, a .env file, or %s%s",
		e.Env, secrets.DefaultDir, e.SecretFile)
}

// New returns a viper instance with defaults and environment bindings.
// The API credentials and result count answer to both the bare variable
// names (GOOGLE_API_KEY, SEARCH_ENGINE_ID, MAX_SEARCHES) and their
// SERPSHEET_ forms.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.BindEnv(KeyAPIKey, "GOOGLE_API_KEY", EnvPrefix+"_GOOGLE_API_KEY")
	v.BindEnv(KeyEngineID, "SEARCH_ENGINE_ID", EnvPrefix+"_SEARCH_ENGINE_ID")
	v.BindEnv(KeyMaxResults, "MAX_SEARCHES", EnvPrefix+"_MAX_SEARCHES")

	v.SetDefault(KeyMaxResults, google.DefaultMaxResults)
	v.SetDefault(KeyEndpoint, google.DefaultEndpoint)
	v.SetDefault(KeyDelay, harvest.DefaultDelay)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyInput, DefaultInput)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyFormat, string(types.FormatCSV))
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
	return v
}

// Load builds the run configuration. Values from s fill in credentials that
// no other source set. A missing API key or engine id is reported as a
// *MissingError before anything else is validated.
func Load(v *viper.Viper, s secrets.Secrets) (types.HarvestConfig, error) {
	v.SetDefault(KeyAPIKey, s[secrets.GoogleAPIKey])
	v.SetDefault(KeyEngineID, s[secrets.SearchEngineID])

	cfg := types.HarvestConfig{
		APIKey:   strings.TrimSpace(v.GetString(KeyAPIKey)),
		EngineID: strings.TrimSpace(v.GetString(KeyEngineID)),
	}
	if cfg.APIKey == "" {
		return types.HarvestConfig{}, &MissingError{Env: "GOOGLE_API_KEY", SecretFile: secrets.GoogleAPIKey}
	}
	if cfg.EngineID == "" {
		return types.HarvestConfig{}, &MissingError{Env: "SEARCH_ENGINE_ID", SecretFile: secrets.SearchEngineID}
	}

	maxResults, err := cast.ToIntE(v.Get(KeyMaxResults))
	if err != nil || maxResults <= 0 {
		return types.HarvestConfig{}, fmt.Errorf("invalid %s %q: must be a positive integer", KeyMaxResults, v.GetString(KeyMaxResults))
	}
	cfg.MaxResults = maxResults

	if cfg.QueryDelay, err = duration(v, KeyDelay); err != nil {
		return types.HarvestConfig{}, err
	}
	if cfg.Timeout, err = duration(v, KeyTimeout); err != nil {
		return types.HarvestConfig{}, err
	}

	if cfg.Format, err = output.ParseFormat(v.GetString(KeyFormat)); err != nil {
		return types.HarvestConfig{}, err
	}

	cfg.Endpoint = v.GetString(KeyEndpoint)
	cfg.InputPath = v.GetString(KeyInput)
	cfg.OutputDir = v.GetString(KeyOutputDir)
	cfg.UserAgent = v.GetString(KeyUserAgent)
	return cfg, nil
}

// duration reads a non-negative duration. Bare numbers are seconds, so
// "2" and "2s" mean the same thing.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.Get(key)
	switch n := raw.(type) {
	case string:
		if secs, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			raw = time.Duration(secs * float64(time.Second))
		}
	case int:
		raw = time.Duration(n) * time.Second
	case float64:
		raw = time.Duration(n * float64(time.Second))
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v.GetString(key), err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %v: must not be negative", key, d)
	}
	return d, nil
}
