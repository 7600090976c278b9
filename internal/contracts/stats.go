package contracts

import "time"

// GroupScope is the level a peer group was drawn from.
type GroupScope string

const (
	ScopeIndustry GroupScope = "industry"
	ScopeSector   GroupScope = "sector"
	ScopeMarket   GroupScope = "market"
)

// PeerGroupStats is the summary of one metric over one peer group on
// one calculation date. Sample holds the clipped, sorted raw values
// and is kept in memory for mid-rank percentiles; it is not persisted.
type PeerGroupStats struct {
	Date       time.Time
	Scope      GroupScope
	Group      string // sector or industry name, "ALL" for market
	Metric     MetricName
	SampleSize int
	Mean       float64
	StdDev     float64
	Min        float64
	P10        float64
	P25        float64
	Median     float64
	P75        float64
	P90        float64
	Max        float64

	Sample []float64 `json:"-"`
}

// Insufficient reports whether the group is too small to score against.
func (s *PeerGroupStats) Insufficient(minSample int) bool {
	return s == nil || s.SampleSize < minSample
}

// MetricObservation is one entity's raw metric value recorded within a
// run, before and independent of any scoring.
type MetricObservation struct {
	EntityID string
	Metric   MetricName
	Value    float64
	Valid    bool
	Reason   string
}
