package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
	"github.com/investorcenter/icscore/internal/valuation"
)

const piotroskiMax = 9

// Quality blends peer-relative profitability with two absolute
// screens: the Piotroski F-Score scaled to the 0-100 range and the
// Altman Z zone band. The screens come from the valuation bank so
// both factor and standalone views agree.
func (c *Calculator) Quality(snap *metrics.Snapshot, vals contracts.ValuationSet) contracts.FactorScore {
	parts := []contracts.MetricScore{
		c.peerScore(snap, contracts.MetricROE, 0.20),
		c.peerScore(snap, contracts.MetricROA, 0.10),
		c.peerScore(snap, contracts.MetricROIC, 0.15),
		c.peerScore(snap, contracts.MetricGrossMargin, 0.10),
		c.peerScore(snap, contracts.MetricOperatingMargin, 0.10),
		c.peerScore(snap, contracts.MetricNetMargin, 0.05),
		{Metric: "piotroski_f_score", Weight: 0.15, Score: piotroskiSubScore(vals)},
		{Metric: "altman_z_band", Weight: 0.15, Score: altmanSubScore(vals)},
	}
	return Blend(contracts.FactorQuality, parts)
}

func piotroskiSubScore(vals contracts.ValuationSet) contracts.Metric {
	est, ok := vals[contracts.ModelPiotroski]
	if !ok || !est.Points.Valid {
		return contracts.Unavailable("no f-score")
	}
	return contracts.MetricOf(est.Points.Value / piotroskiMax * 100)
}

func altmanSubScore(vals contracts.ValuationSet) contracts.Metric {
	est, ok := vals[contracts.ModelAltman]
	if !ok || !est.Points.Valid {
		return contracts.Unavailable("no z-score")
	}
	return contracts.MetricOf(valuation.AltmanBandScore(est.Points.Value))
}
