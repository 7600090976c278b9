package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
version: 2
min_sample_size: 8
regime:
  high_vol_vix: 28
  bear_ytd_return: -12
  bull_ytd_return: 8
  rising_rate_delta: 0.4
valuation:
  risk_free_rate: 0.045
  market_risk_premium: 0.05
  terminal_growth: 0.02
  tax_rate: 0.21
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, 8, cfg.MinSampleSize)
	assert.InDelta(t, 28, cfg.Regime.HighVolVIX, 1e-9)
	assert.InDelta(t, 0.02, cfg.Valuation.TerminalGrowth, 1e-9)
	assert.Len(t, cfg.Hash, 64)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: 1\nmin_sample_size: 6\n"))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.MinSampleSize)
	// Untouched sections stay at the built-in defaults.
	assert.InDelta(t, 30, cfg.Regime.HighVolVIX, 1e-9)
	assert.InDelta(t, 0.025, cfg.Valuation.TerminalGrowth, 1e-9)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "version: 1\nmin_sample_sise: 5\n"))
	require.Error(t, err)
}

func TestLoadHashChangesWithContent(t *testing.T) {
	a, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	b, err := Load(writeConfig(t, validYAML+"\n# tweak\n"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny sample size", func(c *Config) { c.MinSampleSize = 1 }},
		{"inverted regime bands", func(c *Config) { c.Regime.BearYTDReturn = 15 }},
		{"negative risk free", func(c *Config) { c.Valuation.RiskFreeRate = -0.01 }},
		{"absurd terminal growth", func(c *Config) { c.Valuation.TerminalGrowth = 0.10 }},
		{"tax rate of one", func(c *Config) { c.Valuation.TaxRate = 1.0 }},
		{"zero version", func(c *Config) { c.Version = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
