package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/metrics"
	"github.com/investorcenter/icscore/internal/peerstats"
)

// Blend combines metric scores into one factor score. Only valid
// metric scores contribute; the blend divides by the weight actually
// used, so missing metrics redistribute instead of dragging the factor
// toward zero. A factor with no scorable metric at all is unavailable
// and its weight is redistributed by the aggregator.
func Blend(factor contracts.Factor, parts []contracts.MetricScore) contracts.FactorScore {
	var acc, usedWeight, totalWeight float64
	for _, p := range parts {
		totalWeight += p.Weight
		if !p.Score.Valid {
			continue
		}
		acc += p.Score.Value * p.Weight
		usedWeight += p.Weight
	}

	fs := contracts.FactorScore{Factor: factor, Metrics: parts}
	if totalWeight > 0 {
		fs.Coverage = usedWeight / totalWeight
	}
	if usedWeight == 0 {
		fs.Score = contracts.Unavailable("no scorable metrics")
		return fs
	}
	fs.Score = contracts.MetricOf(acc / usedWeight)
	return fs
}

// Calculator scores one entity's factors against the day's peer
// distributions.
type Calculator struct {
	stats *peerstats.StatsSet
}

// NewCalculator creates a factor calculator bound to one date's
// statistics.
func NewCalculator(stats *peerstats.StatsSet) *Calculator {
	return &Calculator{stats: stats}
}

// peerScore ranks one normalized metric against its resolved peer
// group. Unavailable metrics and unresolvable groups both surface as
// invalid scores for the blend to skip.
func (c *Calculator) peerScore(snap *metrics.Snapshot, name contracts.MetricName, weight float64) contracts.MetricScore {
	ms := contracts.MetricScore{Metric: name, Weight: weight}
	raw := snap.Get(name)
	if !raw.Valid {
		ms.Score = raw
		return ms
	}
	group, err := c.stats.Resolve(snap.Entity, name)
	if err != nil {
		ms.Score = contracts.Unavailable("insufficient peer group")
		return ms
	}
	ms.Scope = group.Scope
	ms.Score = peerstats.Score(raw.Value, group, c.stats.MinSampleSize, name.LowerIsBetter())
	return ms
}

// All computes every factor for one entity in canonical order.
func (c *Calculator) All(snap *metrics.Snapshot, facts *contracts.EntityFacts, vals contracts.ValuationSet) []contracts.FactorScore {
	return []contracts.FactorScore{
		c.Value(snap),
		c.Growth(snap),
		c.Quality(snap, vals),
		c.Momentum(snap),
		c.Sentiment(facts),
		c.Risk(snap),
	}
}
