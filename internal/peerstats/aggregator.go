package peerstats

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/investorcenter/icscore/internal/contracts"
)

// DefaultMinSampleSize is the smallest peer group worth scoring
// against.
const DefaultMinSampleSize = 5

// clipThreshold is the group size above which 3-sigma outlier clipping
// is applied before computing summary statistics.
const clipThreshold = 10

// MarketGroup is the group name of the all-market fallback.
const MarketGroup = "ALL"

// Aggregator builds per-group metric distributions for one calculation
// date. It is pure: the same observations always produce the same
// StatsSet.
type Aggregator struct {
	MinSampleSize int
}

// NewAggregator returns an aggregator with the default minimum sample
// size.
func NewAggregator() *Aggregator {
	return &Aggregator{MinSampleSize: DefaultMinSampleSize}
}

// StatsSet holds every peer group distribution for one date, indexed
// by (scope, group, metric). Entities resolve their group through the
// widening ladder in Resolve.
type StatsSet struct {
	Date          time.Time
	MinSampleSize int
	groups        map[string]*contracts.PeerGroupStats
}

func groupKey(scope contracts.GroupScope, group string, metric contracts.MetricName) string {
	return fmt.Sprintf("%s|%s|%s", scope, group, metric)
}

// Build computes distributions at industry, sector and market scope
// for every metric with at least one valid observation. refs maps
// entity IDs to their classification.
func (a *Aggregator) Build(date time.Time, refs map[string]contracts.EntityRef, obs []contracts.MetricObservation) *StatsSet {
	type bucket struct {
		scope  contracts.GroupScope
		group  string
		metric contracts.MetricName
		values []float64
	}
	buckets := make(map[string]*bucket)
	add := func(scope contracts.GroupScope, group string, metric contracts.MetricName, v float64) {
		if group == "" {
			return
		}
		key := groupKey(scope, group, metric)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{scope: scope, group: group, metric: metric}
			buckets[key] = b
		}
		b.values = append(b.values, v)
	}

	for _, o := range obs {
		if !o.Valid {
			continue
		}
		ref, ok := refs[o.EntityID]
		if !ok {
			continue
		}
		add(contracts.ScopeIndustry, ref.Industry, o.Metric, o.Value)
		add(contracts.ScopeSector, ref.Sector, o.Metric, o.Value)
		add(contracts.ScopeMarket, MarketGroup, o.Metric, o.Value)
	}

	set := &StatsSet{
		Date:          date,
		MinSampleSize: a.MinSampleSize,
		groups:        make(map[string]*contracts.PeerGroupStats, len(buckets)),
	}
	for key, b := range buckets {
		set.groups[key] = summarize(date, b.scope, b.group, b.metric, b.values)
	}
	return set
}

// summarize sorts, optionally clips and reduces one sample to its
// summary statistics.
func summarize(date time.Time, scope contracts.GroupScope, group string, metric contracts.MetricName, values []float64) *contracts.PeerGroupStats {
	sample := append([]float64(nil), values...)
	sort.Float64s(sample)

	if len(sample) > clipThreshold {
		sample = clipOutliers(sample)
	}

	s := &contracts.PeerGroupStats{
		Date:       date,
		Scope:      scope,
		Group:      group,
		Metric:     metric,
		SampleSize: len(sample),
		Sample:     sample,
	}
	if len(sample) == 0 {
		return s
	}
	s.Mean = stat.Mean(sample, nil)
	if len(sample) > 1 {
		s.StdDev = stat.StdDev(sample, nil)
	}
	s.Min = sample[0]
	s.Max = sample[len(sample)-1]
	s.P10 = stat.Quantile(0.10, stat.LinInterp, sample, nil)
	s.P25 = stat.Quantile(0.25, stat.LinInterp, sample, nil)
	s.Median = stat.Quantile(0.50, stat.LinInterp, sample, nil)
	s.P75 = stat.Quantile(0.75, stat.LinInterp, sample, nil)
	s.P90 = stat.Quantile(0.90, stat.LinInterp, sample, nil)
	return s
}

// clipOutliers drops values more than three standard deviations from
// the sample mean. Input and output are sorted.
func clipOutliers(sorted []float64) []float64 {
	mean := stat.Mean(sorted, nil)
	sd := stat.StdDev(sorted, nil)
	if sd == 0 {
		return sorted
	}
	lo, hi := mean-3*sd, mean+3*sd
	out := sorted[:0:0]
	for _, v := range sorted {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}

// Resolve walks the widening ladder for one entity and metric:
// industry first, then sector, then the whole market. It returns the
// first group meeting the minimum sample size, or
// ErrInsufficientPeers when even the market group is too small.
func (s *StatsSet) Resolve(ref contracts.EntityRef, metric contracts.MetricName) (*contracts.PeerGroupStats, error) {
	ladder := []struct {
		scope contracts.GroupScope
		group string
	}{
		{contracts.ScopeIndustry, ref.Industry},
		{contracts.ScopeSector, ref.Sector},
		{contracts.ScopeMarket, MarketGroup},
	}
	for _, step := range ladder {
		if step.group == "" {
			continue
		}
		g, ok := s.groups[groupKey(step.scope, step.group, metric)]
		if ok && !g.Insufficient(s.MinSampleSize) {
			return g, nil
		}
	}
	return nil, contracts.ErrInsufficientPeers
}

// Lookup returns the distribution at an exact scope and group, nil
// when absent.
func (s *StatsSet) Lookup(scope contracts.GroupScope, group string, metric contracts.MetricName) *contracts.PeerGroupStats {
	return s.groups[groupKey(scope, group, metric)]
}

// All returns every computed distribution, ordered by key for
// deterministic persistence.
func (s *StatsSet) All() []*contracts.PeerGroupStats {
	keys := make([]string, 0, len(s.groups))
	for k := range s.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*contracts.PeerGroupStats, len(keys))
	for i, k := range keys {
		out[i] = s.groups[k]
	}
	return out
}
