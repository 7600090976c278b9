package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
)

const (
	decelerationPenalty = 5
	consistencyBonus    = 5
	consistencyQuarters = 5
)

// Growth scores growth rates against the peer group, then adjusts the
// blend: a deceleration penalty when the trailing year lags the
// three-year trend, and a consistency bonus for a sustained run of
// growing quarters. Adjustments apply after the weighted blend and the
// result is clamped back to the scale.
func (c *Calculator) Growth(snap *metrics.Snapshot) contracts.FactorScore {
	parts := []contracts.MetricScore{
		c.peerScore(snap, contracts.MetricRevenueGrowthYoY, 0.25),
		c.peerScore(snap, contracts.MetricEPSGrowthYoY, 0.25),
		c.peerScore(snap, contracts.MetricFCFGrowthYoY, 0.15),
		c.peerScore(snap, contracts.MetricRevenueCAGR3Y, 0.20),
		c.peerScore(snap, contracts.MetricEPSCAGR3Y, 0.15),
	}
	fs := Blend(contracts.FactorGrowth, parts)
	if !fs.Score.Valid {
		return fs
	}

	score := fs.Score.Value
	yoy := snap.Get(contracts.MetricRevenueGrowthYoY)
	cagr := snap.Get(contracts.MetricRevenueCAGR3Y)
	if yoy.Valid && cagr.Valid && yoy.Value < cagr.Value {
		score -= decelerationPenalty
	}
	if snap.GrowthQuarters >= consistencyQuarters {
		score += consistencyBonus
	}
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	fs.Score = contracts.MetricOf(score)
	return fs
}
