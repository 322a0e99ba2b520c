// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/serpsheet/internal/google"
	"github.com/pdiddy/serpsheet/internal/secrets"
	"github.com/pdiddy/serpsheet/pkg/types"
)

// clearEnv blanks every variable Load consults. Viper treats empty
// variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GOOGLE_API_KEY", "SEARCH_ENGINE_ID", "MAX_SEARCHES"} {
		t.Setenv(name, "")
		t.Setenv(EnvPrefix+"_"+name, "")
	}
	for _, key := range []string{KeyEndpoint, KeyDelay, KeyTimeout, KeyInput, KeyOutputDir, KeyFormat, KeyUserAgent} {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(key), "")
	}
}

func withCredentials(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("SEARCH_ENGINE_ID", "env-cx")
}

func TestLoad_Defaults(t *testing.T) {
	withCredentials(t)

	cfg, err := Load(New(), nil)
	require.NoError(t, err)

	assert.Equal(t, types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent},
		APIKey:     "env-key",
		EngineID:   "env-cx",
		Endpoint:   google.DefaultEndpoint,
		MaxResults: 10,
		QueryDelay: time.Second,
		InputPath:  "queries.csv",
		OutputDir:  ".",
		Format:     types.FormatCSV,
	}, cfg)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_ENGINE_ID", "cx")

	_, err := Load(New(), nil)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "GOOGLE_API_KEY", missing.Env)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
	assert.Contains(t, err.Error(), ".secrets/google-api-key")
}

func TestLoad_MissingEngineID(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")

	_, err := Load(New(), nil)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "SEARCH_ENGINE_ID", missing.Env)
}

func TestLoad_MissingBeatsOtherErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_SEARCHES", "lots")

	_, err := Load(New(), nil)

	var missing *MissingError
	assert.True(t, errors.As(err, &missing))
}

func TestLoad_SecretsFillCredentials(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(New(), secrets.Secrets{
		secrets.GoogleAPIKey:   "file-key",
		secrets.SearchEngineID: "file-cx",
	})
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "file-cx", cfg.EngineID)
}

func TestLoad_EnvironmentBeatsSecrets(t *testing.T) {
	withCredentials(t)

	cfg, err := Load(New(), secrets.Secrets{secrets.GoogleAPIKey: "file-key"})
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"_GOOGLE_API_KEY", "pk")
	t.Setenv(EnvPrefix+"_SEARCH_ENGINE_ID", "pcx")
	t.Setenv(EnvPrefix+"_FORMAT", "json")
	t.Setenv(EnvPrefix+"_OUTPUT_DIR", "out")

	cfg, err := Load(New(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pk", cfg.APIKey)
	assert.Equal(t, "pcx", cfg.EngineID)
	assert.Equal(t, types.FormatJSON, cfg.Format)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoad_MaxSearches(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"25", 25, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			withCredentials(t)
			t.Setenv("MAX_SEARCHES", tt.value)

			cfg, err := Load(New(), nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), KeyMaxResults)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MaxResults)
		})
	}
}

func TestLoad_Durations(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"2", 2 * time.Second, false},
		{"0.5", 500 * time.Millisecond, false},
		{"250ms", 250 * time.Millisecond, false},
		{"0", 0, false},
		{"-1s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			withCredentials(t)
			t.Setenv(EnvPrefix+"_DELAY", tt.value)

			cfg, err := Load(New(), nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), KeyDelay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.QueryDelay)
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	withCredentials(t)
	t.Setenv(EnvPrefix+"_FORMAT", "xlsx")

	_, err := Load(New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestLoad_ConfigFile(t *testing.T) {
	withCredentials(t)
	v := New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
max_searches: 3
delay: 2
timeout: 45s
format: yaml
input: terms.csv
search_engine_id: file-cx
`)))

	cfg, err := Load(v, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxResults)
	assert.Equal(t, 2*time.Second, cfg.QueryDelay)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, types.FormatYAML, cfg.Format)
	assert.Equal(t, "terms.csv", cfg.InputPath)
	// Environment beats the config file.
	assert.Equal(t, "env-cx", cfg.EngineID)
}

func TestLoad_FlagsBeatEnvironment(t *testing.T) {
	withCredentials(t)
	t.Setenv("MAX_SEARCHES", "4")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("max-results", 0, "")
	fs.Duration("delay", 0, "")
	require.NoError(t, fs.Parse([]string{"--max-results=8", "--delay=150ms"}))

	v := New()
	require.NoError(t, v.BindPFlag(KeyMaxResults, fs.Lookup("max-results")))
	require.NoError(t, v.BindPFlag(KeyDelay, fs.Lookup("delay")))

	cfg, err := Load(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.Equal(t, 150*time.Millisecond, cfg.QueryDelay)
}

func TestLoad_UnchangedFlagsKeepDefaults(t *testing.T) {
	withCredentials(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("max-results", 0, "")
	require.NoError(t, fs.Parse(nil))

	v := New()
	require.NoError(t, v.BindPFlag(KeyMaxResults, fs.Lookup("max-results")))

	cfg, err := Load(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxResults)
}
