package metrics

import (
	"github.com/investorcenter/icscore/internal/contracts"
)

const taxRate = 0.21

func have(vs ...*float64) bool {
	for _, v := range vs {
		if v == nil {
			return false
		}
	}
	return true
}

// PERatio is price over trailing diluted EPS. Negative or zero earnings
// have no meaningful multiple.
func PERatio(price, eps *float64) contracts.Metric {
	if !have(price, eps) {
		return contracts.Unavailable("missing input")
	}
	if *eps <= 0 {
		return contracts.Unavailable("non-positive eps")
	}
	return contracts.MetricOf(*price / *eps)
}

// ForwardPE is price over consensus next-year EPS.
func ForwardPE(price, epsNextYear *float64) contracts.Metric {
	return PERatio(price, epsNextYear)
}

// PEGRatio divides a trailing P/E by expected growth in percent. Values
// outside (0, 5] are treated as bad data rather than extreme signals.
func PEGRatio(pe contracts.Metric, growthPct *float64) contracts.Metric {
	if !pe.Valid {
		return contracts.Unavailable("no pe")
	}
	if growthPct == nil || *growthPct <= 0 {
		return contracts.Unavailable("non-positive growth")
	}
	peg := pe.Value / *growthPct
	if peg <= 0 || peg > 5 {
		return contracts.Unavailablef("peg %.2f outside (0,5]", peg)
	}
	return contracts.MetricOf(peg)
}

// PBRatio is price over book value per share.
func PBRatio(price, equity, shares *float64) contracts.Metric {
	if !have(price, equity, shares) {
		return contracts.Unavailable("missing input")
	}
	if *equity <= 0 || *shares <= 0 {
		return contracts.Unavailable("non-positive book value")
	}
	return contracts.MetricOf(*price / (*equity / *shares))
}

// PSRatio is market cap over trailing revenue.
func PSRatio(marketCap, revenue *float64) contracts.Metric {
	if !have(marketCap, revenue) {
		return contracts.Unavailable("missing input")
	}
	if *revenue <= 0 {
		return contracts.Unavailable("non-positive revenue")
	}
	return contracts.MetricOf(*marketCap / *revenue)
}

// EnterpriseValue is market cap plus total debt minus cash. Missing
// debt or cash degrade to zero rather than blocking the multiple.
func EnterpriseValue(marketCap, shortTermDebt, longTermDebt, cash *float64) contracts.Metric {
	if marketCap == nil {
		return contracts.Unavailable("missing market cap")
	}
	ev := *marketCap
	if shortTermDebt != nil {
		ev += *shortTermDebt
	}
	if longTermDebt != nil {
		ev += *longTermDebt
	}
	if cash != nil {
		ev -= *cash
	}
	return contracts.MetricOf(ev)
}

// EVEBITDA is enterprise value over EBITDA.
func EVEBITDA(ev contracts.Metric, ebitda *float64) contracts.Metric {
	if !ev.Valid {
		return ev
	}
	if ebitda == nil || *ebitda <= 0 {
		return contracts.Unavailable("non-positive ebitda")
	}
	return contracts.MetricOf(ev.Value / *ebitda)
}

// EVFCF is enterprise value over free cash flow.
func EVFCF(ev contracts.Metric, fcf *float64) contracts.Metric {
	if !ev.Valid {
		return ev
	}
	if fcf == nil || *fcf <= 0 {
		return contracts.Unavailable("non-positive fcf")
	}
	return contracts.MetricOf(ev.Value / *fcf)
}

// PFCF is market cap over free cash flow.
func PFCF(marketCap, fcf *float64) contracts.Metric {
	if !have(marketCap, fcf) {
		return contracts.Unavailable("missing input")
	}
	if *fcf <= 0 {
		return contracts.Unavailable("non-positive fcf")
	}
	return contracts.MetricOf(*marketCap / *fcf)
}

// PFFO is price over funds-from-operations per share, the REIT
// substitute for P/E.
func PFFO(price, ffoPerShare *float64) contracts.Metric {
	return PERatio(price, ffoPerShare)
}

// ROE is net income over shareholders' equity, in percent. Negative
// equity makes the ratio meaningless.
func ROE(netIncome, equity *float64) contracts.Metric {
	if !have(netIncome, equity) {
		return contracts.Unavailable("missing input")
	}
	if *equity <= 0 {
		return contracts.Unavailable("non-positive equity")
	}
	return contracts.MetricOf(*netIncome / *equity * 100)
}

// ROA is net income over total assets, in percent.
func ROA(netIncome, totalAssets *float64) contracts.Metric {
	if !have(netIncome, totalAssets) {
		return contracts.Unavailable("missing input")
	}
	if *totalAssets <= 0 {
		return contracts.Unavailable("non-positive assets")
	}
	return contracts.MetricOf(*netIncome / *totalAssets * 100)
}

// ROIC is after-tax operating income over invested capital
// (equity + debt - cash), in percent.
func ROIC(ebit, equity, shortTermDebt, longTermDebt, cash *float64) contracts.Metric {
	if !have(ebit, equity) {
		return contracts.Unavailable("missing input")
	}
	invested := *equity
	if shortTermDebt != nil {
		invested += *shortTermDebt
	}
	if longTermDebt != nil {
		invested += *longTermDebt
	}
	if cash != nil {
		invested -= *cash
	}
	if invested <= 0 {
		return contracts.Unavailable("non-positive invested capital")
	}
	return contracts.MetricOf(*ebit * (1 - taxRate) / invested * 100)
}

// Margin is a numerator over revenue, in percent. Used for gross,
// operating, net and EBITDA margins.
func Margin(numerator, revenue *float64) contracts.Metric {
	if !have(numerator, revenue) {
		return contracts.Unavailable("missing input")
	}
	if *revenue <= 0 {
		return contracts.Unavailable("non-positive revenue")
	}
	return contracts.MetricOf(*numerator / *revenue * 100)
}

// DebtToEquity is total debt over shareholders' equity.
func DebtToEquity(shortTermDebt, longTermDebt, equity *float64) contracts.Metric {
	if equity == nil {
		return contracts.Unavailable("missing equity")
	}
	if *equity <= 0 {
		return contracts.Unavailable("non-positive equity")
	}
	var debt float64
	if shortTermDebt != nil {
		debt += *shortTermDebt
	}
	if longTermDebt != nil {
		debt += *longTermDebt
	}
	return contracts.MetricOf(debt / *equity)
}

// NetDebtToEBITDA is total debt minus cash over EBITDA.
func NetDebtToEBITDA(shortTermDebt, longTermDebt, cash, ebitda *float64) contracts.Metric {
	if ebitda == nil || *ebitda <= 0 {
		return contracts.Unavailable("non-positive ebitda")
	}
	var netDebt float64
	if shortTermDebt != nil {
		netDebt += *shortTermDebt
	}
	if longTermDebt != nil {
		netDebt += *longTermDebt
	}
	if cash != nil {
		netDebt -= *cash
	}
	return contracts.MetricOf(netDebt / *ebitda)
}

// InterestCoverage is EBIT over interest expense. Zero interest means
// the ratio is undefined, not infinite.
func InterestCoverage(ebit, interestExpense *float64) contracts.Metric {
	if !have(ebit, interestExpense) {
		return contracts.Unavailable("missing input")
	}
	if *interestExpense <= 0 {
		return contracts.Unavailable("no interest expense")
	}
	return contracts.MetricOf(*ebit / *interestExpense)
}

// CurrentRatio is current assets over current liabilities.
func CurrentRatio(currentAssets, currentLiabilities *float64) contracts.Metric {
	if !have(currentAssets, currentLiabilities) {
		return contracts.Unavailable("missing input")
	}
	if *currentLiabilities <= 0 {
		return contracts.Unavailable("non-positive current liabilities")
	}
	return contracts.MetricOf(*currentAssets / *currentLiabilities)
}

// PayoutRatio is dividends per share over EPS, in percent.
func PayoutRatio(dividendPerShare, eps *float64) contracts.Metric {
	if !have(dividendPerShare, eps) {
		return contracts.Unavailable("missing input")
	}
	if *eps <= 0 {
		return contracts.Unavailable("non-positive eps")
	}
	return contracts.MetricOf(*dividendPerShare / *eps * 100)
}

// DividendYield is dividends per share over price, in percent.
func DividendYield(dividendPerShare, price *float64) contracts.Metric {
	if !have(dividendPerShare, price) {
		return contracts.Unavailable("missing input")
	}
	if *price <= 0 {
		return contracts.Unavailable("non-positive price")
	}
	return contracts.MetricOf(*dividendPerShare / *price * 100)
}

// FCFYield is free cash flow over market cap, in percent.
func FCFYield(fcf, marketCap *float64) contracts.Metric {
	if !have(fcf, marketCap) {
		return contracts.Unavailable("missing input")
	}
	if *marketCap <= 0 {
		return contracts.Unavailable("non-positive market cap")
	}
	return contracts.MetricOf(*fcf / *marketCap * 100)
}
