package regime

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// baseWeights holds the factor weight profile per GICS sector. Each
// row sums to 1.0. Sectors carry the emphasis that matters for their
// economics: rate-sensitive sectors weight value and risk, secular
// growers weight growth.
var baseWeights = map[string]contracts.ScoreWeights{
	"Information Technology": {
		contracts.FactorValue: 0.15, contracts.FactorGrowth: 0.30, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.10,
	},
	"Health Care": {
		contracts.FactorValue: 0.15, contracts.FactorGrowth: 0.25, contracts.FactorQuality: 0.25,
		contracts.FactorMomentum: 0.10, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.15,
	},
	"Financials": {
		contracts.FactorValue: 0.30, contracts.FactorGrowth: 0.10, contracts.FactorQuality: 0.25,
		contracts.FactorMomentum: 0.10, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.15,
	},
	"Consumer Discretionary": {
		contracts.FactorValue: 0.20, contracts.FactorGrowth: 0.25, contracts.FactorQuality: 0.15,
		contracts.FactorMomentum: 0.20, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.10,
	},
	"Consumer Staples": {
		contracts.FactorValue: 0.25, contracts.FactorGrowth: 0.10, contracts.FactorQuality: 0.30,
		contracts.FactorMomentum: 0.10, contracts.FactorSentiment: 0.05, contracts.FactorRisk: 0.20,
	},
	"Energy": {
		contracts.FactorValue: 0.30, contracts.FactorGrowth: 0.10, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.05, contracts.FactorRisk: 0.20,
	},
	"Industrials": {
		contracts.FactorValue: 0.25, contracts.FactorGrowth: 0.20, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.10,
	},
	"Materials": {
		contracts.FactorValue: 0.30, contracts.FactorGrowth: 0.15, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.05, contracts.FactorRisk: 0.15,
	},
	"Utilities": {
		contracts.FactorValue: 0.25, contracts.FactorGrowth: 0.05, contracts.FactorQuality: 0.25,
		contracts.FactorMomentum: 0.10, contracts.FactorSentiment: 0.05, contracts.FactorRisk: 0.30,
	},
	"Real Estate": {
		contracts.FactorValue: 0.30, contracts.FactorGrowth: 0.10, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.10, contracts.FactorSentiment: 0.05, contracts.FactorRisk: 0.25,
	},
	"Communication Services": {
		contracts.FactorValue: 0.20, contracts.FactorGrowth: 0.25, contracts.FactorQuality: 0.20,
		contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.10,
	},
}

// defaultWeights applies to entities with an unknown or missing sector
// classification.
var defaultWeights = contracts.ScoreWeights{
	contracts.FactorValue: 0.25, contracts.FactorGrowth: 0.20, contracts.FactorQuality: 0.20,
	contracts.FactorMomentum: 0.15, contracts.FactorSentiment: 0.10, contracts.FactorRisk: 0.10,
}

// regimeDeltas tilts the sector profile by 5 point shifts. Each delta
// set nets to zero; clamping plus renormalization keeps the result a
// valid weight set even when a base weight hits the floor.
var regimeDeltas = map[contracts.Regime]contracts.ScoreWeights{
	contracts.RegimeHighVolatility: {
		contracts.FactorQuality: 0.05, contracts.FactorMomentum: -0.05,
	},
	contracts.RegimeBull: {
		contracts.FactorGrowth: 0.05, contracts.FactorValue: -0.05,
	},
	contracts.RegimeBear: {
		contracts.FactorValue: 0.05, contracts.FactorQuality: 0.05,
		contracts.FactorGrowth: -0.05, contracts.FactorMomentum: -0.05,
	},
	contracts.RegimeRisingRate: {
		contracts.FactorValue: 0.05, contracts.FactorGrowth: -0.05,
	},
}

// Sectors lists the sector names with a dedicated weight profile.
func Sectors() []string {
	out := make([]string, 0, len(baseWeights))
	for s := range baseWeights {
		out = append(out, s)
	}
	return out
}

// Resolve returns the factor weights for a sector under a regime:
// the sector base profile shifted by the regime delta, clamped to
// non-negative and renormalized to sum to 1.
func Resolve(sector string, regime contracts.Regime) contracts.ScoreWeights {
	base, ok := baseWeights[sector]
	if !ok {
		base = defaultWeights
	}
	delta := regimeDeltas[regime]

	out := make(contracts.ScoreWeights, len(contracts.Factors))
	var sum float64
	for _, f := range contracts.Factors {
		w := base[f] + delta[f]
		if w < 0 {
			w = 0
		}
		out[f] = w
		sum += w
	}
	for f, w := range out {
		out[f] = w / sum
	}
	return out
}
