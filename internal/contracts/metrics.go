package contracts

// MetricName identifies a normalized metric tracked for peer statistics
// and factor scoring. Names match the columns used by the ingestion
// collaborator so observations can round-trip through storage.
type MetricName string

const (
	// Valuation (lower is better)
	MetricPE        MetricName = "pe_ratio"
	MetricForwardPE MetricName = "forward_pe_ratio"
	MetricPEG       MetricName = "peg_ratio"
	MetricPB        MetricName = "pb_ratio"
	MetricPS        MetricName = "ps_ratio"
	MetricEVEBITDA  MetricName = "ev_ebitda"
	MetricPFCF      MetricName = "p_fcf"
	MetricPFFO      MetricName = "p_ffo"
	MetricEVFCF     MetricName = "ev_fcf"

	// Profitability (higher is better)
	MetricROE             MetricName = "roe"
	MetricROA             MetricName = "roa"
	MetricROIC            MetricName = "roic"
	MetricGrossMargin     MetricName = "gross_margin"
	MetricOperatingMargin MetricName = "operating_margin"
	MetricNetMargin       MetricName = "net_margin"
	MetricEBITDAMargin    MetricName = "ebitda_margin"

	// Growth (higher is better)
	MetricRevenueGrowthYoY MetricName = "revenue_growth_yoy"
	MetricEPSGrowthYoY     MetricName = "eps_growth_yoy"
	MetricFCFGrowthYoY     MetricName = "fcf_growth_yoy"
	MetricRevenueCAGR3Y    MetricName = "revenue_growth_3y_cagr"
	MetricEPSCAGR3Y        MetricName = "eps_growth_3y_cagr"

	// Leverage / financial health
	MetricDebtToEquity     MetricName = "debt_to_equity"
	MetricNetDebtToEBITDA  MetricName = "net_debt_to_ebitda"
	MetricInterestCoverage MetricName = "interest_coverage"
	MetricCurrentRatio     MetricName = "current_ratio"
	MetricPayoutRatio      MetricName = "payout_ratio"

	// Market / momentum
	MetricReturn1M      MetricName = "return_1m"
	MetricReturn3M      MetricName = "return_3m"
	MetricReturn6M      MetricName = "return_6m"
	MetricReturn12M     MetricName = "return_12m"
	MetricDividendYield MetricName = "dividend_yield"
	MetricFCFYield      MetricName = "fcf_yield"

	// Risk (lower is better)
	MetricBeta          MetricName = "beta"
	MetricVolatility1Y  MetricName = "volatility_1y"
	MetricMaxDrawdown1Y MetricName = "max_drawdown_1y"

	// Sentiment inputs
	MetricAnalystConsensus    MetricName = "analyst_consensus"
	MetricNewsSentiment       MetricName = "news_sentiment"
	MetricInsiderNetBuying    MetricName = "insider_net_buying"
	MetricInstitutionalChange MetricName = "institutional_change"
)

// lowerIsBetter lists metrics where a lower raw value ranks higher.
// Max drawdown is stored as a positive magnitude, so lower is better.
var lowerIsBetter = map[MetricName]bool{
	MetricPE:              true,
	MetricForwardPE:       true,
	MetricPEG:             true,
	MetricPB:              true,
	MetricPS:              true,
	MetricEVEBITDA:        true,
	MetricPFCF:            true,
	MetricPFFO:            true,
	MetricEVFCF:           true,
	MetricDebtToEquity:    true,
	MetricNetDebtToEBITDA: true,
	MetricPayoutRatio:     true,
	MetricBeta:            true,
	MetricVolatility1Y:    true,
	MetricMaxDrawdown1Y:   true,
}

// LowerIsBetter reports whether a lower raw value should receive a
// higher percentile score for this metric.
func (m MetricName) LowerIsBetter() bool {
	return lowerIsBetter[m]
}

// sanityBands holds the per-metric range outside of which an observation
// is considered bad data and excluded from peer aggregation. Bands are
// deliberately wide; outlier clipping inside the aggregator handles the
// statistical tails.
var sanityBands = map[MetricName][2]float64{
	MetricPE:               {0, 2000},
	MetricForwardPE:        {0, 2000},
	MetricPEG:              {0, 5},
	MetricPB:               {0, 500},
	MetricPS:               {0, 500},
	MetricEVEBITDA:         {0, 1000},
	MetricPFCF:             {0, 2000},
	MetricPFFO:             {0, 2000},
	MetricEVFCF:            {0, 2000},
	MetricROE:              {-500, 500},
	MetricROA:              {-200, 200},
	MetricROIC:             {-200, 200},
	MetricGrossMargin:      {-100, 100},
	MetricOperatingMargin:  {-500, 100},
	MetricNetMargin:        {-500, 100},
	MetricEBITDAMargin:     {-500, 100},
	MetricRevenueGrowthYoY: {-100, 1000},
	MetricEPSGrowthYoY:     {-1000, 1000},
	MetricFCFGrowthYoY:     {-1000, 1000},
	MetricRevenueCAGR3Y:    {-100, 300},
	MetricEPSCAGR3Y:        {-100, 300},
	MetricDebtToEquity:     {0, 100},
	MetricNetDebtToEBITDA:  {-50, 50},
	MetricInterestCoverage: {-100, 10000},
	MetricCurrentRatio:     {0, 100},
	MetricPayoutRatio:      {0, 500},
	MetricDividendYield:    {0, 50},
	MetricFCFYield:         {-100, 100},
	MetricBeta:             {-5, 10},
	MetricVolatility1Y:     {0, 500},
	MetricMaxDrawdown1Y:    {0, 100},
}

// InSanityBand reports whether a raw value lies inside the metric's
// plausibility band. Metrics without a declared band accept any finite
// value.
func (m MetricName) InSanityBand(v float64) bool {
	band, ok := sanityBands[m]
	if !ok {
		return true
	}
	return v >= band[0] && v <= band[1]
}
