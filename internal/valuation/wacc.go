package valuation

// Assumptions are the shared capital-market inputs for the fair value
// models.
type Assumptions struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate"`
	MarketRiskPremium float64 `yaml:"market_risk_premium"`
	TerminalGrowth    float64 `yaml:"terminal_growth"`
	TaxRate           float64 `yaml:"tax_rate"`
}

// DefaultAssumptions returns the standard model inputs.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.055,
		TerminalGrowth:    0.025,
		TaxRate:           0.21,
	}
}

// Cost of capital guard rails. Estimates outside these bands say more
// about the inputs than about the business.
const (
	minWACC     = 0.05
	maxWACC     = 0.20
	defaultWACC = 0.10

	minCostOfDebt     = 0.02
	maxCostOfDebt     = 0.15
	defaultCostOfDebt = 0.05
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WACC estimates the weighted average cost of capital from CAPM cost
// of equity and the effective interest rate on debt. A missing beta
// defaults to the market beta of 1. Zero total capitalization falls
// back to the default rate.
func WACC(beta *float64, marketCap, totalDebt, interestExpense float64, a Assumptions) float64 {
	b := 1.0
	if beta != nil {
		b = *beta
	}
	costEquity := a.RiskFreeRate + b*a.MarketRiskPremium

	costDebt := defaultCostOfDebt
	if totalDebt > 0 && interestExpense > 0 {
		costDebt = clamp(interestExpense/totalDebt, minCostOfDebt, maxCostOfDebt)
	}

	total := marketCap + totalDebt
	if total <= 0 {
		return defaultWACC
	}
	wacc := marketCap/total*costEquity + totalDebt/total*costDebt*(1-a.TaxRate)
	return clamp(wacc, minWACC, maxWACC)
}
