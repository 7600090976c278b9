package contracts

import "time"

// Rating is the label derived from the overall score.
type Rating string

const (
	RatingStrongBuy  Rating = "Strong Buy"
	RatingBuy        Rating = "Buy"
	RatingHold       Rating = "Hold"
	RatingSell       Rating = "Sell"
	RatingStrongSell Rating = "Strong Sell"
)

// RatingFor maps an overall score to its rating band.
func RatingFor(score float64) Rating {
	switch {
	case score >= 85:
		return RatingStrongBuy
	case score >= 70:
		return RatingBuy
	case score >= 50:
		return RatingHold
	case score >= 30:
		return RatingSell
	default:
		return RatingStrongSell
	}
}

// ConfidenceLevel buckets the confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceVeryLow ConfidenceLevel = "very_low"
)

// ConfidenceBreakdown exposes the banded components of the confidence
// estimate.
type ConfidenceBreakdown struct {
	Completeness float64 `json:"completeness"` // 0-30
	Freshness    float64 `json:"freshness"`    // 0-25
	Coverage     float64 `json:"coverage"`     // 0-25
	Stability    float64 `json:"stability"`    // 0-20
}

// Confidence is the estimator output: a 0-100 score, its level, the
// component breakdown, and the level-dependent score error band.
type Confidence struct {
	Score     float64             `json:"score"`
	Level     ConfidenceLevel     `json:"level"`
	ErrorBand float64             `json:"error_band"`
	Breakdown ConfidenceBreakdown `json:"breakdown"`
}

// ScoreRecord is one append-only, point-in-time composite score for
// one entity. Records are never updated in place; each run inserts a
// fresh row keyed by (entity, date, run).
type ScoreRecord struct {
	EntityID    string        `json:"entity_id"`
	Date        time.Time     `json:"date"`
	RunID       string        `json:"run_id"`
	Score       float64       `json:"score"`   // 1-100
	Rating      Rating        `json:"rating"`
	Factors     []FactorScore `json:"factors"`
	Weights     ScoreWeights  `json:"weights"`
	Regime      Regime        `json:"regime"`
	Confidence  Confidence    `json:"confidence"`
	ScoreChange *float64      `json:"score_change,omitempty"` // vs prior run
	SectorRank  int           `json:"sector_rank,omitempty"`
	SectorSize  int           `json:"sector_size,omitempty"`
	ConfigHash  string        `json:"config_hash"`
	ComputedAt  time.Time     `json:"computed_at"`
}
