package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesim/lifebank/market"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2025, cfg.Simulation.StartYear)
	assert.Equal(t, 30, cfg.Simulation.Years)
	assert.Len(t, cfg.Accounts, 3)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero years",
			mutate:  func(c *Config) { c.Simulation.Years = 0 },
			wantErr: "years",
		},
		{
			name:    "negative start year",
			mutate:  func(c *Config) { c.Simulation.StartYear = -1 },
			wantErr: "start_year",
		},
		{
			name:    "base rate out of range",
			mutate:  func(c *Config) { c.Policy.BaseRate = 1.5 },
			wantErr: "base_rate",
		},
		{
			name:    "zero max LTV",
			mutate:  func(c *Config) { c.Policy.MaxLoanToValue = 0 },
			wantErr: "max_loan_to_value",
		},
		{
			name:    "unknown regime weight",
			mutate:  func(c *Config) { c.Market.Weights = map[string]float64{"apocalypse": 1} },
			wantErr: "unknown regime",
		},
		{
			name:    "negative regime weight",
			mutate:  func(c *Config) { c.Market.Weights = map[string]float64{"normal": -1} },
			wantErr: "non-negative",
		},
		{
			name:    "unknown account category",
			mutate:  func(c *Config) { c.Accounts[0].Category = "offshore" },
			wantErr: "unknown category",
		},
		{
			name:    "loan without principal",
			mutate:  func(c *Config) { c.Accounts[2].Principal = 0 },
			wantErr: "principal",
		},
		{
			name:    "amortizing loan without term",
			mutate:  func(c *Config) { c.Accounts[2].TermYears = 0 },
			wantErr: "term",
		},
		{
			name:    "negative initial deposit",
			mutate:  func(c *Config) { c.Accounts[0].Initial = -5 },
			wantErr: "non-negative",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Journal.DBPath = "" },
			wantErr: "db_path",
		},
		{
			name: "csv without files",
			mutate: func(c *Config) {
				c.Journal = JournalConfig{Type: "csv"}
			},
			wantErr: "entries_file",
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "parquet" },
			wantErr: "journal.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"yaml", "json"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config."+ext)

			cfg := Default()
			cfg.Simulation.Seed = 42
			cfg.Market.Weights = map[string]float64{"normal": 0.5, "boom": 0.5}
			require.NoError(t, cfg.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := Default()
	bad.Simulation.Years = 0
	path := filepath.Join(t.TempDir(), "bad.yaml")
	// SaveToFile does not validate; loading the broken file must.
	require.NoError(t, bad.SaveToFile(path))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestRegimeWeights(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Nil(t, cfg.RegimeWeights())

	cfg.Market.Weights = map[string]float64{"recession": 0.2, "normal": 0.8}
	w := cfg.RegimeWeights()
	assert.Equal(t, market.Weights{market.Recession: 0.2, market.Normal: 0.8}, w)
}
