package valuation

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

// PiotroskiChecks are the nine binary signals with their outcomes, for
// breakdown exposure.
type PiotroskiChecks struct {
	PositiveROA        bool
	PositiveCFO        bool
	ImprovingROA       bool
	CFOExceedsIncome   bool
	FallingLeverage    bool
	ImprovingLiquidity bool
	NoDilution         bool
	ImprovingMargin    bool
	ImprovingTurnover  bool
}

// Score sums the passed checks.
func (c PiotroskiChecks) Score() int {
	n := 0
	for _, pass := range []bool{
		c.PositiveROA, c.PositiveCFO, c.ImprovingROA, c.CFOExceedsIncome,
		c.FallingLeverage, c.ImprovingLiquidity, c.NoDilution,
		c.ImprovingMargin, c.ImprovingTurnover,
	} {
		if pass {
			n++
		}
	}
	return n
}

// Piotroski runs the nine-check financial strength screen against the
// current and prior fiscal year. Every check needs both years, so a
// missing prior year makes the whole score unavailable rather than a
// misleading partial count.
func Piotroski(cur, prior *contracts.FiscalPeriod) (PiotroskiChecks, contracts.Metric) {
	var c PiotroskiChecks
	if cur == nil || prior == nil {
		return c, contracts.Unavailable("missing fiscal year")
	}

	needed := []*float64{
		cur.NetIncome, cur.TotalAssets, cur.OperatingCashFlow,
		prior.NetIncome, prior.TotalAssets,
	}
	for _, v := range needed {
		if v == nil {
			return c, contracts.Unavailable("missing fundamentals")
		}
	}
	if *cur.TotalAssets <= 0 || *prior.TotalAssets <= 0 {
		return c, contracts.Unavailable("non-positive assets")
	}

	roa := *cur.NetIncome / *cur.TotalAssets
	priorROA := *prior.NetIncome / *prior.TotalAssets

	c.PositiveROA = roa > 0
	c.PositiveCFO = *cur.OperatingCashFlow > 0
	c.ImprovingROA = roa > priorROA
	c.CFOExceedsIncome = *cur.OperatingCashFlow > *cur.NetIncome

	if cur.LongTermDebt != nil && prior.LongTermDebt != nil {
		c.FallingLeverage = *cur.LongTermDebt / *cur.TotalAssets < *prior.LongTermDebt / *prior.TotalAssets
	}
	if cur.CurrentAssets != nil && cur.CurrentLiabilities != nil &&
		prior.CurrentAssets != nil && prior.CurrentLiabilities != nil &&
		*cur.CurrentLiabilities > 0 && *prior.CurrentLiabilities > 0 {
		c.ImprovingLiquidity = *cur.CurrentAssets / *cur.CurrentLiabilities > *prior.CurrentAssets / *prior.CurrentLiabilities
	}
	if cur.SharesOutstanding != nil && prior.SharesOutstanding != nil {
		c.NoDilution = *cur.SharesOutstanding <= *prior.SharesOutstanding
	}
	if cur.GrossProfit != nil && cur.Revenue != nil && prior.GrossProfit != nil && prior.Revenue != nil &&
		*cur.Revenue > 0 && *prior.Revenue > 0 {
		c.ImprovingMargin = *cur.GrossProfit / *cur.Revenue > *prior.GrossProfit / *prior.Revenue
	}
	if cur.Revenue != nil && prior.Revenue != nil {
		c.ImprovingTurnover = *cur.Revenue / *cur.TotalAssets > *prior.Revenue / *prior.TotalAssets
	}

	return c, contracts.MetricOf(float64(c.Score()))
}
