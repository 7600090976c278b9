package contracts

// Regime is the detected market environment used to tilt factor
// weights.
type Regime string

const (
	RegimeNeutral        Regime = "neutral"
	RegimeBull           Regime = "bull"
	RegimeBear           Regime = "bear"
	RegimeHighVolatility Regime = "high_volatility"
	RegimeRisingRate     Regime = "rising_rate"
)
