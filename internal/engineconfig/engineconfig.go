package engineconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/investorcenter/icscore/internal/regime"
	"github.com/investorcenter/icscore/internal/valuation"
)

// Config is the scoring engine's tuning file: peer group thresholds,
// regime cutoffs and valuation assumptions. Every published score
// record carries the hash of the config that produced it, so a tuning
// change is always distinguishable from a data change.
type Config struct {
	Version       int                   `yaml:"version"`
	MinSampleSize int                   `yaml:"min_sample_size"`
	Regime        regime.Thresholds     `yaml:"regime"`
	Valuation     valuation.Assumptions `yaml:"valuation"`

	// Hash is the SHA-256 of the raw file bytes, not serialized back.
	Hash string `yaml:"-"`
}

// Default returns the built-in tuning used when no file is configured.
func Default() *Config {
	cfg := &Config{
		Version:       1,
		MinSampleSize: 5,
		Regime:        regime.DefaultThresholds(),
		Valuation:     valuation.DefaultAssumptions(),
	}
	cfg.Hash = "builtin-v1"
	return cfg
}

// Load reads and validates a tuning file. Unknown fields are rejected
// so a typo of a threshold name fails loudly instead of silently
// running on defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse engine config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate engine config %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	cfg.Hash = hex.EncodeToString(sum[:])
	return cfg, nil
}

// Validate checks the tuning for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", c.Version)
	}
	if c.MinSampleSize < 2 {
		return fmt.Errorf("min_sample_size must be >= 2, got %d", c.MinSampleSize)
	}
	if c.Regime.BearYTDReturn >= c.Regime.BullYTDReturn {
		return fmt.Errorf("bear_ytd_return %.2f must be below bull_ytd_return %.2f",
			c.Regime.BearYTDReturn, c.Regime.BullYTDReturn)
	}
	if c.Regime.HighVolVIX <= 0 {
		return fmt.Errorf("high_vol_vix must be positive, got %.2f", c.Regime.HighVolVIX)
	}
	v := c.Valuation
	if v.TaxRate < 0 || v.TaxRate >= 1 {
		return fmt.Errorf("tax_rate must be in [0,1), got %.4f", v.TaxRate)
	}
	if v.TerminalGrowth <= 0 || v.TerminalGrowth >= 0.05 {
		return fmt.Errorf("terminal_growth must be in (0,0.05), got %.4f", v.TerminalGrowth)
	}
	if v.MarketRiskPremium <= 0 {
		return fmt.Errorf("market_risk_premium must be positive, got %.4f", v.MarketRiskPremium)
	}
	if v.RiskFreeRate < 0 {
		return fmt.Errorf("risk_free_rate must not be negative, got %.4f", v.RiskFreeRate)
	}
	return nil
}
