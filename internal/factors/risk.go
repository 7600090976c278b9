package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
)

// Risk scores downside characteristics against the peer group. Every
// input is lower-is-better, so the percentile inversion rewards the
// calm, lightly levered names.
func (c *Calculator) Risk(snap *metrics.Snapshot) contracts.FactorScore {
	parts := []contracts.MetricScore{
		c.peerScore(snap, contracts.MetricBeta, 0.20),
		c.peerScore(snap, contracts.MetricVolatility1Y, 0.25),
		c.peerScore(snap, contracts.MetricMaxDrawdown1Y, 0.20),
		c.peerScore(snap, contracts.MetricDebtToEquity, 0.20),
		c.peerScore(snap, contracts.MetricNetDebtToEBITDA, 0.15),
	}
	return Blend(contracts.FactorRisk, parts)
}
