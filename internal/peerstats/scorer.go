package peerstats

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// Score maps a raw value to a 0-100 rank against its peer
// distribution using mid-rank percentiles: ties share the midpoint of
// their rank range. The scored entity's own observation is removed
// from the distribution before counting, so the group minimum and
// maximum reach the full 0 and 100 ends. Direction is taken from the
// metric: for lower-is-better metrics the rank is inverted.
func Score(value float64, g *contracts.PeerGroupStats, minSample int, lowerIsBetter bool) contracts.Metric {
	if g.Insufficient(minSample) {
		return contracts.Unavailable("insufficient peer group")
	}
	below, equal := 0, 0
	for _, v := range g.Sample {
		switch {
		case v < value:
			below++
		case v == value:
			equal++
		}
	}
	n := len(g.Sample)
	if equal > 0 {
		// Drop the entity's own observation.
		equal--
		n--
	}
	if n <= 0 {
		return contracts.Unavailable("no peers")
	}
	rank := (float64(below) + 0.5*float64(equal)) / float64(n) * 100
	if lowerIsBetter {
		rank = 100 - rank
	}
	return contracts.MetricOf(rank)
}

// ZScore maps a raw value to a 0-100 score via its standardized
// distance from the group mean, clamped to the scale. A degenerate
// group with zero spread cannot be scored.
func ZScore(value float64, g *contracts.PeerGroupStats, minSample int, lowerIsBetter bool) contracts.Metric {
	if g.Insufficient(minSample) {
		return contracts.Unavailable("insufficient peer group")
	}
	if g.StdDev == 0 {
		return contracts.Unavailable("zero stddev")
	}
	z := (value - g.Mean) / g.StdDev
	if lowerIsBetter {
		z = -z
	}
	score := 50 + 25*z
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return contracts.MetricOf(score)
}
