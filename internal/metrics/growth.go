package metrics

import (
	"math"

	"github.com/investorcenter/icscore/internal/contracts"
)

// GrowthKind selects the sign-handling rule for year-over-year growth.
// Revenue cannot go negative, so it uses the plain formula; EPS and FCF
// are signed series and need the flip/narrowing rules.
type GrowthKind int

const (
	GrowthRevenue GrowthKind = iota
	GrowthEPS
	GrowthFCF
)

// YoYGrowth returns year-over-year growth in percent.
//
// A zero or missing prior is unavailable (no meaningful base). For
// signed series a sign flip between prior and current is unavailable
// because the ratio is not interpretable. When both periods are
// negative the result is (|prior|-|current|)/|prior|, so a narrowing
// loss reads as positive growth.
func YoYGrowth(current, prior *float64, kind GrowthKind) contracts.Metric {
	if current == nil || prior == nil {
		return contracts.Unavailable("missing period")
	}
	c, p := *current, *prior
	if p == 0 {
		return contracts.Unavailable("zero prior")
	}
	if kind != GrowthRevenue {
		if (c > 0 && p < 0) || (c < 0 && p > 0) {
			return contracts.Unavailable("sign flip")
		}
		if c <= 0 && p < 0 {
			return contracts.MetricOf((math.Abs(p) - math.Abs(c)) / math.Abs(p) * 100)
		}
	}
	if p < 0 {
		return contracts.Unavailable("negative prior")
	}
	return contracts.MetricOf((c - p) / p * 100)
}

// CAGR returns the compound annual growth rate in percent between a
// start and end value over the given span. Both endpoints must be
// strictly positive.
func CAGR(start, end *float64, years int) contracts.Metric {
	if start == nil || end == nil {
		return contracts.Unavailable("missing endpoint")
	}
	if years <= 0 {
		return contracts.Unavailable("non-positive span")
	}
	s, e := *start, *end
	if s <= 0 || e <= 0 {
		return contracts.Unavailable("non-positive endpoint")
	}
	return contracts.MetricOf((math.Pow(e/s, 1/float64(years)) - 1) * 100)
}

// QoQGrowth returns quarter-over-quarter growth in percent with the
// same sign rules as YoYGrowth.
func QoQGrowth(current, prior *float64, kind GrowthKind) contracts.Metric {
	return YoYGrowth(current, prior, kind)
}

// ConsecutiveGrowthQuarters counts how many of the most recent
// quarters grew revenue versus the same quarter a year earlier.
// Quarters are ordered newest first; the count stops at the first
// non-growing or non-comparable quarter.
func ConsecutiveGrowthQuarters(quarters []contracts.FiscalPeriod) int {
	count := 0
	for i := 0; i+4 < len(quarters); i++ {
		g := YoYGrowth(quarters[i].Revenue, quarters[i+4].Revenue, GrowthRevenue)
		if !g.Valid || g.Value <= 0 {
			break
		}
		count++
	}
	return count
}

// DividendGrowthYears counts consecutive years of dividend-per-share
// increases, scanning annual periods newest first.
func DividendGrowthYears(annual []contracts.FiscalPeriod) int {
	count := 0
	for i := 0; i+1 < len(annual); i++ {
		cur, prev := annual[i].DividendPerShare, annual[i+1].DividendPerShare
		if cur == nil || prev == nil || *cur <= *prev || *prev <= 0 {
			break
		}
		count++
	}
	return count
}
