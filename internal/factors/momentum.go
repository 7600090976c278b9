package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
)

// Momentum scores trailing returns against the peer group, weighting
// longer horizons more heavily.
func (c *Calculator) Momentum(snap *metrics.Snapshot) contracts.FactorScore {
	parts := []contracts.MetricScore{
		c.peerScore(snap, contracts.MetricReturn1M, 0.15),
		c.peerScore(snap, contracts.MetricReturn3M, 0.25),
		c.peerScore(snap, contracts.MetricReturn6M, 0.25),
		c.peerScore(snap, contracts.MetricReturn12M, 0.35),
	}
	return Blend(contracts.FactorMomentum, parts)
}
