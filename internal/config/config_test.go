package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// No env vars set beyond whatever the test host carries; the defaults
	// must produce a valid configuration.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, "data_manual", cfg.Paths.ManualDir)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.InDelta(t, 5.0, cfg.Provider.RateLimit, 1e-9)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/pulled")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("PROVIDER_BASE_URL", "https://example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pulled", cfg.Paths.DataDir)
	assert.Equal(t, "/tmp/out", cfg.Paths.OutputDir)
	assert.Equal(t, "https://example.com", cfg.Provider.BaseURL)
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "divcli.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	t.Setenv("CONFIG_FILE", file)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	// A file that sets only one field must not wipe the defaults of
	// everything it omits.
	writeConfigFile(t, "provider:\n  base_url: https://file.example.com\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.Provider.BaseURL)
	assert.True(t, cfg.Provider.UseProvider, "UseProvider default lost after yaml merge")
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, "data_manual", cfg.Paths.ManualDir)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.InDelta(t, 5.0, cfg.Provider.RateLimit, 1e-9)
	assert.Equal(t, "2020-01-01", cfg.Windows.CovidStart)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	writeConfigFile(t, "paths:\n  data_dir: /from-file\nlogging:\n  level: debug\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/from-file", cfg.Paths.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	writeConfigFile(t, "paths:\n  data_dir: /from-file\nprovider:\n  base_url: https://file.example.com\n")
	t.Setenv("DATA_DIR", "/from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/from-env", cfg.Paths.DataDir, "an explicitly set env var wins over the file")
	assert.Equal(t, "https://file.example.com", cfg.Provider.BaseURL, "the file fills fields the env left unset")
}

func TestWindows(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	covid, err := cfg.CovidWindow()
	require.NoError(t, err)
	assert.Equal(t, "covid", covid.Name)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), covid.Start)
	assert.Equal(t, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC), covid.End)

	extended, err := cfg.ExtendedWindow()
	require.NoError(t, err)
	assert.Equal(t, "extended", extended.Name)
	assert.Equal(t, time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC), extended.Start)
	assert.True(t, extended.End.After(extended.Start))
}

func TestWindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		wantErr string
	}{
		{
			name:    "malformed covid start",
			envKey:  "COVID_START",
			envVal:  "01/01/2020",
			wantErr: "config validation failed",
		},
		{
			name:    "covid start after end",
			envKey:  "COVID_START",
			envVal:  "2021-01-01",
			wantErr: "must be before end",
		},
		{
			name:    "extended end before start",
			envKey:  "EXTENDED_END",
			envVal:  "2007-01-01",
			wantErr: "must be before end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
