package contracts

// Factor is one of the six composite score dimensions.
type Factor string

const (
	FactorValue     Factor = "value"
	FactorGrowth    Factor = "growth"
	FactorQuality   Factor = "quality"
	FactorMomentum  Factor = "momentum"
	FactorSentiment Factor = "sentiment"
	FactorRisk      Factor = "risk"
)

// Factors lists all factors in canonical order.
var Factors = []Factor{
	FactorValue,
	FactorGrowth,
	FactorQuality,
	FactorMomentum,
	FactorSentiment,
	FactorRisk,
}

// MetricScore is one scored metric inside a factor: the percentile or
// z-derived 0-100 score plus the weight it carried in the blend.
type MetricScore struct {
	Metric MetricName `json:"metric"`
	Score  Metric     `json:"score"`
	Weight float64    `json:"weight"`
	Scope  GroupScope `json:"scope,omitempty"`
}

// FactorScore is the blended 0-100 score for one factor. Coverage is
// the share of the factor's metric weight that was actually scorable.
type FactorScore struct {
	Factor   Factor        `json:"factor"`
	Score    Metric        `json:"score"`
	Coverage float64       `json:"coverage"`
	Metrics  []MetricScore `json:"metrics"`
}

// ScoreWeights maps each factor to its resolved weight. Valid weight
// sets are non-negative and sum to 1.
type ScoreWeights map[Factor]float64

// Sum returns the total weight across all factors.
func (w ScoreWeights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}
