package contracts

import "time"

// EntityRef identifies a scoreable security with its peer-group
// classification as of a calculation date.
type EntityRef struct {
	EntityID string `json:"entity_id"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	IsREIT   bool   `json:"is_reit"`
}

// FiscalPeriod is one reported income/balance/cash-flow period.
// Nil fields were not reported; the normalizer maps them to the
// unavailable arm, never to zero. Periods are ordered newest first.
type FiscalPeriod struct {
	PeriodEnd time.Time

	Revenue            *float64
	GrossProfit        *float64
	OperatingIncome    *float64 // EBIT
	EBITDA             *float64
	NetIncome          *float64
	EPSDiluted         *float64
	InterestExpense    *float64
	IncomeTaxExpense   *float64
	OperatingCashFlow  *float64
	FreeCashFlow       *float64
	TotalAssets        *float64
	TotalLiabilities   *float64
	CurrentAssets      *float64
	CurrentLiabilities *float64
	Cash               *float64
	ShortTermDebt      *float64
	LongTermDebt       *float64
	ShareholdersEquity *float64
	RetainedEarnings   *float64
	SharesOutstanding  *float64
	DividendPerShare   *float64
	FFOPerShare        *float64 // REITs only
}

// PriceSummary carries the market-side inputs for one entity on the
// calculation date.
type PriceSummary struct {
	Price             *float64
	MarketCap         *float64
	SharesOutstanding *float64
	Beta              *float64
	Return1M          *float64
	Return3M          *float64
	Return6M          *float64
	Return12M         *float64
	Volatility1Y      *float64 // annualized, percent
	MaxDrawdown1Y     *float64 // positive magnitude, percent
}

// AnalystSummary aggregates recent analyst coverage.
type AnalystSummary struct {
	Total          int
	Buy            int
	Hold           int
	Sell           int
	AvgPriceTarget *float64
	EPSNextYear    *float64 // consensus forward EPS
	Growth5Y       *float64 // consensus long-term growth, percent
}

// OwnershipSummary aggregates insider and institutional activity.
type OwnershipSummary struct {
	InsiderNetShares90D *float64
	InstitutionCount    int
	InstitutionShares   *float64
	PrevInstShares      *float64
}

// SentimentSummary aggregates news sentiment over the trailing window.
type SentimentSummary struct {
	ArticleCount  int
	AvgSentiment  *float64 // 0-100
	PositiveCount int
	NegativeCount int
}

// EntityFacts is everything the engine consumes for one entity on one
// calculation date, pre-validated by the external ingestion
// collaborator. Annual and Quarters are ordered newest first.
type EntityFacts struct {
	EntityRef
	Date time.Time

	Annual   []FiscalPeriod
	Quarters []FiscalPeriod

	Price     PriceSummary
	Analysts  AnalystSummary
	Ownership OwnershipSummary
	Sentiment SentimentSummary

	// Days since the most recent filing backing the fundamentals.
	FilingAgeDays int

	// Prior overall scores for the confidence volatility component,
	// newest first.
	ScoreHistory []float64
}

// MacroIndicators are the external macro inputs to regime detection.
type MacroIndicators struct {
	Date             time.Time
	VIX              float64
	IndexYTDReturn   float64 // percent
	TenYearYieldDelta float64 // percentage points over trailing quarter
}
