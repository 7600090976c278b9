package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
)

// Value scores valuation multiples against the peer group. REITs
// substitute P/FFO for P/E since FFO, not net income, drives their
// distributable earnings.
func (c *Calculator) Value(snap *metrics.Snapshot) contracts.FactorScore {
	earningsMultiple := contracts.MetricPE
	if snap.Entity.IsREIT {
		earningsMultiple = contracts.MetricPFFO
	}
	parts := []contracts.MetricScore{
		c.peerScore(snap, earningsMultiple, 0.20),
		c.peerScore(snap, contracts.MetricForwardPE, 0.15),
		c.peerScore(snap, contracts.MetricPEG, 0.20),
		c.peerScore(snap, contracts.MetricPB, 0.15),
		c.peerScore(snap, contracts.MetricPS, 0.10),
		c.peerScore(snap, contracts.MetricEVEBITDA, 0.10),
		c.peerScore(snap, contracts.MetricPFCF, 0.10),
	}
	return Blend(contracts.FactorValue, parts)
}
