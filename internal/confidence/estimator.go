package confidence

import (
	"gonum.org/v1/gonum/stat"

	"github.com/investorcenter/icscore/internal/contracts"
)

// Component ceilings. The four components sum to at most 100.
const (
	maxCompleteness = 30
	maxFreshness    = 25
	maxCoverage     = 25
	maxStability    = 20
)

// minHistory is the score history length below which stability falls
// back to a neutral value instead of guessing from noise.
const minHistory = 3

const neutralStability = 10

// Estimate grades how much to trust a composite score: how much of
// the input surface was actually present, how stale the fundamentals
// are, how well the street covers the name, and how stable the score
// has been historically.
func Estimate(factorScores []contracts.FactorScore, facts *contracts.EntityFacts) contracts.Confidence {
	b := contracts.ConfidenceBreakdown{
		Completeness: completeness(factorScores),
		Freshness:    freshness(facts.FilingAgeDays),
		Coverage:     analystCoverage(facts.Analysts.Total),
		Stability:    stability(facts.ScoreHistory),
	}
	score := b.Completeness + b.Freshness + b.Coverage + b.Stability
	level, band := levelFor(score)
	return contracts.Confidence{
		Score:     score,
		Level:     level,
		ErrorBand: band,
		Breakdown: b,
	}
}

// completeness scales the mean metric coverage across all factors.
// An unavailable factor counts as zero coverage rather than being
// dropped, so thin inputs read as thin.
func completeness(factorScores []contracts.FactorScore) float64 {
	if len(factorScores) == 0 {
		return 0
	}
	var sum float64
	for _, fs := range factorScores {
		sum += fs.Coverage
	}
	return sum / float64(len(factorScores)) * maxCompleteness
}

func freshness(filingAgeDays int) float64 {
	switch {
	case filingAgeDays <= 30:
		return maxFreshness
	case filingAgeDays <= 90:
		return 20
	case filingAgeDays <= 180:
		return 12
	case filingAgeDays <= 365:
		return 5
	default:
		return 0
	}
}

func analystCoverage(analysts int) float64 {
	switch {
	case analysts >= 20:
		return maxCoverage
	case analysts >= 10:
		return 20
	case analysts >= 5:
		return 14
	case analysts >= 1:
		return 8
	default:
		return 0
	}
}

// stability rewards a score that has not been swinging: low
// coefficient of variation over the recent history scores high.
func stability(history []float64) float64 {
	if len(history) < minHistory {
		return neutralStability
	}
	mean := stat.Mean(history, nil)
	if mean <= 0 {
		return neutralStability
	}
	cv := stat.StdDev(history, nil) / mean
	switch {
	case cv < 0.05:
		return maxStability
	case cv < 0.10:
		return 15
	case cv < 0.20:
		return 8
	default:
		return 3
	}
}

func levelFor(score float64) (contracts.ConfidenceLevel, float64) {
	switch {
	case score >= 80:
		return contracts.ConfidenceHigh, 3
	case score >= 60:
		return contracts.ConfidenceMedium, 5
	case score >= 40:
		return contracts.ConfidenceLow, 8
	default:
		return contracts.ConfidenceVeryLow, 12
	}
}
