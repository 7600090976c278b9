package valuation

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// EPV capitalizes after-tax operating earnings as a no-growth
// perpetuity at the cost of capital and nets out debt. It answers what
// the business is worth assuming earnings power only, no growth.
func EPV(ebit, wacc, netDebt, shares float64, a Assumptions) contracts.Metric {
	if ebit <= 0 {
		return contracts.Unavailable("non-positive ebit")
	}
	if wacc <= 0 {
		return contracts.Unavailable("non-positive wacc")
	}
	if shares <= 0 {
		return contracts.Unavailable("non-positive share count")
	}
	equity := ebit*(1-a.TaxRate)/wacc - netDebt
	if equity <= 0 {
		return contracts.Unavailable("non-positive equity value")
	}
	return contracts.MetricOf(equity / shares)
}
