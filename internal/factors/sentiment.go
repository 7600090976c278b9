package factors

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// Sentiment sub-score scales. Net insider activity maps 50 plus or
// minus shares over the scale; institutional holdings changes map 5
// points per percent around 50.
const (
	insiderShareScale    = 2000.0
	institutionFullScore = 100.0
	holdingsChangeScale  = 5.0
)

// Sentiment blends market-opinion signals on absolute scales rather
// than peer percentiles: the inputs are already bounded and comparable
// across sectors.
func (c *Calculator) Sentiment(facts *contracts.EntityFacts) contracts.FactorScore {
	parts := []contracts.MetricScore{
		{Metric: contracts.MetricAnalystConsensus, Weight: 0.40, Score: analystConsensusScore(facts.Analysts)},
		{Metric: contracts.MetricNewsSentiment, Weight: 0.25, Score: newsSentimentScore(facts.Sentiment)},
		{Metric: contracts.MetricInsiderNetBuying, Weight: 0.20, Score: insiderActivityScore(facts.Ownership)},
		{Metric: contracts.MetricInstitutionalChange, Weight: 0.15, Score: institutionalScore(facts.Ownership)},
	}
	return Blend(contracts.FactorSentiment, parts)
}

// analystConsensusScore weights ratings buy 100, hold 50, sell 0.
func analystConsensusScore(a contracts.AnalystSummary) contracts.Metric {
	if a.Total == 0 {
		return contracts.Unavailable("no analyst coverage")
	}
	score := (float64(a.Buy)*100 + float64(a.Hold)*50) / float64(a.Total)
	return contracts.MetricOf(clamp01(score))
}

func newsSentimentScore(s contracts.SentimentSummary) contracts.Metric {
	if s.ArticleCount == 0 || s.AvgSentiment == nil {
		return contracts.Unavailable("no news coverage")
	}
	return contracts.MetricOf(clamp01(*s.AvgSentiment))
}

// insiderActivityScore centers on 50: heavy buying saturates at 100,
// heavy selling at 0.
func insiderActivityScore(o contracts.OwnershipSummary) contracts.Metric {
	if o.InsiderNetShares90D == nil {
		return contracts.Unavailable("no insider data")
	}
	return contracts.MetricOf(clamp01(50 + *o.InsiderNetShares90D/insiderShareScale))
}

// institutionalScore averages breadth of ownership with the change in
// total institutional shares.
func institutionalScore(o contracts.OwnershipSummary) contracts.Metric {
	if o.InstitutionCount == 0 {
		return contracts.Unavailable("no institutional data")
	}
	breadth := float64(o.InstitutionCount)
	if breadth > institutionFullScore {
		breadth = institutionFullScore
	}
	scores := []float64{breadth}

	if o.PrevInstShares != nil && *o.PrevInstShares > 0 && o.InstitutionShares != nil {
		changePct := (*o.InstitutionShares - *o.PrevInstShares) / *o.PrevInstShares * 100
		scores = append(scores, clamp01(50+changePct*holdingsChangeScale))
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return contracts.MetricOf(sum / float64(len(scores)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
