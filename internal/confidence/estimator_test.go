package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/investorcenter/icscore/internal/contracts"
)

func fullCoverage() []contracts.FactorScore {
	out := make([]contracts.FactorScore, len(contracts.Factors))
	for i, f := range contracts.Factors {
		out[i] = contracts.FactorScore{Factor: f, Score: contracts.MetricOf(70), Coverage: 1}
	}
	return out
}

func TestEstimateHighConfidence(t *testing.T) {
	facts := &contracts.EntityFacts{
		FilingAgeDays: 20,
		Analysts:      contracts.AnalystSummary{Total: 25},
		ScoreHistory:  []float64{72, 71, 73, 72},
	}
	got := Estimate(fullCoverage(), facts)

	assert.InDelta(t, 30, got.Breakdown.Completeness, 1e-9)
	assert.InDelta(t, 25, got.Breakdown.Freshness, 1e-9)
	assert.InDelta(t, 25, got.Breakdown.Coverage, 1e-9)
	assert.InDelta(t, 20, got.Breakdown.Stability, 1e-9)
	assert.InDelta(t, 100, got.Score, 1e-9)
	assert.Equal(t, contracts.ConfidenceHigh, got.Level)
	assert.InDelta(t, 3, got.ErrorBand, 1e-9)
}

func TestEstimateSparseInputs(t *testing.T) {
	// One factor with half its metrics, stale filings, no coverage,
	// no history.
	factors := []contracts.FactorScore{
		{Factor: contracts.FactorValue, Score: contracts.MetricOf(60), Coverage: 0.5},
		{Factor: contracts.FactorGrowth, Score: contracts.Unavailable("nothing"), Coverage: 0},
	}
	facts := &contracts.EntityFacts{FilingAgeDays: 400}

	got := Estimate(factors, facts)
	assert.InDelta(t, 7.5, got.Breakdown.Completeness, 1e-9)
	assert.InDelta(t, 0, got.Breakdown.Freshness, 1e-9)
	assert.InDelta(t, 0, got.Breakdown.Coverage, 1e-9)
	assert.InDelta(t, 10, got.Breakdown.Stability, 1e-9) // neutral without history
	assert.Equal(t, contracts.ConfidenceVeryLow, got.Level)
	assert.InDelta(t, 12, got.ErrorBand, 1e-9)
}

func TestFreshnessBands(t *testing.T) {
	assert.InDelta(t, 25, freshness(0), 1e-9)
	assert.InDelta(t, 20, freshness(60), 1e-9)
	assert.InDelta(t, 12, freshness(120), 1e-9)
	assert.InDelta(t, 5, freshness(300), 1e-9)
	assert.InDelta(t, 0, freshness(500), 1e-9)
}

func TestAnalystCoverageBands(t *testing.T) {
	assert.InDelta(t, 25, analystCoverage(20), 1e-9)
	assert.InDelta(t, 20, analystCoverage(12), 1e-9)
	assert.InDelta(t, 14, analystCoverage(5), 1e-9)
	assert.InDelta(t, 8, analystCoverage(1), 1e-9)
	assert.InDelta(t, 0, analystCoverage(0), 1e-9)
}

func TestStability(t *testing.T) {
	assert.InDelta(t, 20, stability([]float64{70, 70.5, 69.8, 70.2}), 1e-9)
	assert.InDelta(t, 3, stability([]float64{30, 70, 45, 90}), 1e-9)
	assert.InDelta(t, 10, stability([]float64{70}), 1e-9)
	assert.InDelta(t, 10, stability(nil), 1e-9)
}

func TestLevelBoundaries(t *testing.T) {
	for _, tc := range []struct {
		score float64
		level contracts.ConfidenceLevel
		band  float64
	}{
		{85, contracts.ConfidenceHigh, 3},
		{80, contracts.ConfidenceHigh, 3},
		{79.9, contracts.ConfidenceMedium, 5},
		{60, contracts.ConfidenceMedium, 5},
		{59.9, contracts.ConfidenceLow, 8},
		{40, contracts.ConfidenceLow, 8},
		{39.9, contracts.ConfidenceVeryLow, 12},
	} {
		level, band := levelFor(tc.score)
		assert.Equal(t, tc.level, level, "score=%v", tc.score)
		assert.InDelta(t, tc.band, band, 1e-9, "score=%v", tc.score)
	}
}
