package valuation

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// Altman's published discriminant coefficients and distress cutoffs.
const (
	altmanWC  = 1.2
	altmanRE  = 1.4
	altmanEB  = 3.3
	altmanMV  = 0.6
	altmanSA  = 1.0

	altmanSafe     = 2.99
	altmanDistress = 1.81
)

// AltmanZ computes the five-ratio bankruptcy discriminant from the
// latest fiscal year and market value of equity.
func AltmanZ(p *contracts.FiscalPeriod, marketCap *float64) contracts.Metric {
	if p == nil {
		return contracts.Unavailable("missing fiscal year")
	}
	if p.TotalAssets == nil || *p.TotalAssets <= 0 {
		return contracts.Unavailable("non-positive assets")
	}
	if p.TotalLiabilities == nil || *p.TotalLiabilities <= 0 {
		return contracts.Unavailable("non-positive liabilities")
	}
	if p.CurrentAssets == nil || p.CurrentLiabilities == nil ||
		p.RetainedEarnings == nil || p.OperatingIncome == nil ||
		p.Revenue == nil || marketCap == nil {
		return contracts.Unavailable("missing fundamentals")
	}

	ta := *p.TotalAssets
	z := altmanWC*(*p.CurrentAssets-*p.CurrentLiabilities)/ta +
		altmanRE*(*p.RetainedEarnings)/ta +
		altmanEB*(*p.OperatingIncome)/ta +
		altmanMV*(*marketCap)/(*p.TotalLiabilities) +
		altmanSA*(*p.Revenue)/ta
	return contracts.MetricOf(z)
}

// AltmanBandScore maps a Z value onto the 0-100 scale by zone: safe
// above 2.99, grey zone interpolated 50-80, distress zone interpolated
// 0-50.
func AltmanBandScore(z float64) float64 {
	switch {
	case z > altmanSafe:
		return 100
	case z >= altmanDistress:
		return 50 + (z-altmanDistress)/(altmanSafe-altmanDistress)*30
	case z <= 0:
		return 0
	default:
		return z / altmanDistress * 50
	}
}
