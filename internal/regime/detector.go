package regime

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// Thresholds are the macro cutoffs for regime classification.
type Thresholds struct {
	HighVolVIX      float64 `yaml:"high_vol_vix"`
	BearYTDReturn   float64 `yaml:"bear_ytd_return"`
	BullYTDReturn   float64 `yaml:"bull_ytd_return"`
	RisingRateDelta float64 `yaml:"rising_rate_delta"`
}

// DefaultThresholds returns the standard classification cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighVolVIX:      30,
		BearYTDReturn:   -10,
		BullYTDReturn:   10,
		RisingRateDelta: 0.5,
	}
}

// Detect classifies the market regime from macro indicators. Rules are
// checked in a fixed precedence order so overlapping conditions always
// resolve the same way: high volatility beats bear, bear beats bull,
// bull beats rising rates.
func Detect(macro contracts.MacroIndicators, t Thresholds) contracts.Regime {
	switch {
	case macro.VIX >= t.HighVolVIX:
		return contracts.RegimeHighVolatility
	case macro.IndexYTDReturn <= t.BearYTDReturn:
		return contracts.RegimeBear
	case macro.IndexYTDReturn >= t.BullYTDReturn:
		return contracts.RegimeBull
	case macro.TenYearYieldDelta >= t.RisingRateDelta:
		return contracts.RegimeRisingRate
	default:
		return contracts.RegimeNeutral
	}
}
