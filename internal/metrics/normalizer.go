package metrics

import (
	"sort"
	"time"

	"github.com/investorcenter/icscore/internal/contracts"
)

// Snapshot is one entity's full normalized metric set for a
// calculation date. Values holds every derived metric, available or
// not; downstream consumers never see a raw nil or NaN.
type Snapshot struct {
	Entity contracts.EntityRef
	Date   time.Time
	Values map[contracts.MetricName]contracts.Metric

	// Supplemental counters consumed by the growth factor.
	GrowthQuarters      int
	DividendGrowthYears int
}

// Get returns the named metric, unavailable when never derived.
func (s *Snapshot) Get(name contracts.MetricName) contracts.Metric {
	if m, ok := s.Values[name]; ok {
		return m
	}
	return contracts.Unavailable("not derived")
}

// Observations flattens the snapshot into per-metric observation rows
// in a stable metric order.
func (s *Snapshot) Observations() []contracts.MetricObservation {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, string(name))
	}
	sort.Strings(names)

	obs := make([]contracts.MetricObservation, 0, len(names))
	for _, name := range names {
		m := s.Values[contracts.MetricName(name)]
		obs = append(obs, contracts.MetricObservation{
			EntityID: s.Entity.EntityID,
			Metric:   contracts.MetricName(name),
			Value:    m.Value,
			Valid:    m.Valid,
			Reason:   m.Reason,
		})
	}
	return obs
}

// Normalize derives the full metric set from an entity's validated
// facts. Every metric is guarded at its own precondition; a failed
// guard yields the unavailable arm with a reason, and values outside
// the metric's plausibility band are rejected as bad data.
func Normalize(facts *contracts.EntityFacts) *Snapshot {
	s := &Snapshot{
		Entity: facts.EntityRef,
		Date:   facts.Date,
		Values: make(map[contracts.MetricName]contracts.Metric, 40),
	}

	var cur, prior, threeBack *contracts.FiscalPeriod
	if len(facts.Annual) > 0 {
		cur = &facts.Annual[0]
	}
	if len(facts.Annual) > 1 {
		prior = &facts.Annual[1]
	}
	if len(facts.Annual) > 3 {
		threeBack = &facts.Annual[3]
	}
	if cur == nil {
		// Nothing fundamental to derive; market metrics still apply.
		s.putMarket(facts)
		return s
	}

	price := facts.Price.Price
	marketCap := facts.Price.MarketCap

	// Valuation multiples.
	pe := PERatio(price, cur.EPSDiluted)
	s.put(contracts.MetricPE, pe)
	s.put(contracts.MetricForwardPE, ForwardPE(price, facts.Analysts.EPSNextYear))
	s.put(contracts.MetricPEG, PEGRatio(pe, facts.Analysts.Growth5Y))
	s.put(contracts.MetricPB, PBRatio(price, cur.ShareholdersEquity, cur.SharesOutstanding))
	s.put(contracts.MetricPS, PSRatio(marketCap, cur.Revenue))
	ev := EnterpriseValue(marketCap, cur.ShortTermDebt, cur.LongTermDebt, cur.Cash)
	s.put(contracts.MetricEVEBITDA, EVEBITDA(ev, cur.EBITDA))
	s.put(contracts.MetricEVFCF, EVFCF(ev, cur.FreeCashFlow))
	s.put(contracts.MetricPFCF, PFCF(marketCap, cur.FreeCashFlow))
	if facts.IsREIT {
		s.put(contracts.MetricPFFO, PFFO(price, cur.FFOPerShare))
	}

	// Profitability.
	s.put(contracts.MetricROE, ROE(cur.NetIncome, cur.ShareholdersEquity))
	s.put(contracts.MetricROA, ROA(cur.NetIncome, cur.TotalAssets))
	s.put(contracts.MetricROIC, ROIC(cur.OperatingIncome, cur.ShareholdersEquity,
		cur.ShortTermDebt, cur.LongTermDebt, cur.Cash))
	s.put(contracts.MetricGrossMargin, Margin(cur.GrossProfit, cur.Revenue))
	s.put(contracts.MetricOperatingMargin, Margin(cur.OperatingIncome, cur.Revenue))
	s.put(contracts.MetricNetMargin, Margin(cur.NetIncome, cur.Revenue))
	s.put(contracts.MetricEBITDAMargin, Margin(cur.EBITDA, cur.Revenue))

	// Growth.
	if prior != nil {
		s.put(contracts.MetricRevenueGrowthYoY, YoYGrowth(cur.Revenue, prior.Revenue, GrowthRevenue))
		s.put(contracts.MetricEPSGrowthYoY, YoYGrowth(cur.EPSDiluted, prior.EPSDiluted, GrowthEPS))
		s.put(contracts.MetricFCFGrowthYoY, YoYGrowth(cur.FreeCashFlow, prior.FreeCashFlow, GrowthFCF))
	}
	if threeBack != nil {
		s.put(contracts.MetricRevenueCAGR3Y, CAGR(threeBack.Revenue, cur.Revenue, 3))
		s.put(contracts.MetricEPSCAGR3Y, CAGR(threeBack.EPSDiluted, cur.EPSDiluted, 3))
	}
	s.GrowthQuarters = ConsecutiveGrowthQuarters(facts.Quarters)
	s.DividendGrowthYears = DividendGrowthYears(facts.Annual)

	// Leverage and coverage.
	s.put(contracts.MetricDebtToEquity, DebtToEquity(cur.ShortTermDebt, cur.LongTermDebt, cur.ShareholdersEquity))
	s.put(contracts.MetricNetDebtToEBITDA, NetDebtToEBITDA(cur.ShortTermDebt, cur.LongTermDebt, cur.Cash, cur.EBITDA))
	s.put(contracts.MetricInterestCoverage, InterestCoverage(cur.OperatingIncome, cur.InterestExpense))
	s.put(contracts.MetricCurrentRatio, CurrentRatio(cur.CurrentAssets, cur.CurrentLiabilities))
	s.put(contracts.MetricPayoutRatio, PayoutRatio(cur.DividendPerShare, cur.EPSDiluted))
	s.put(contracts.MetricDividendYield, DividendYield(cur.DividendPerShare, price))
	s.put(contracts.MetricFCFYield, FCFYield(cur.FreeCashFlow, marketCap))

	s.putMarket(facts)
	return s
}

func (s *Snapshot) putMarket(facts *contracts.EntityFacts) {
	s.put(contracts.MetricReturn1M, fromPtr(facts.Price.Return1M))
	s.put(contracts.MetricReturn3M, fromPtr(facts.Price.Return3M))
	s.put(contracts.MetricReturn6M, fromPtr(facts.Price.Return6M))
	s.put(contracts.MetricReturn12M, fromPtr(facts.Price.Return12M))
	s.put(contracts.MetricBeta, fromPtr(facts.Price.Beta))
	s.put(contracts.MetricVolatility1Y, fromPtr(facts.Price.Volatility1Y))
	s.put(contracts.MetricMaxDrawdown1Y, fromPtr(facts.Price.MaxDrawdown1Y))
}

// put stores a metric after the plausibility check.
func (s *Snapshot) put(name contracts.MetricName, m contracts.Metric) {
	if m.Valid && !name.InSanityBand(m.Value) {
		m = contracts.Unavailablef("%.2f outside plausible range", m.Value)
	}
	s.Values[name] = m
}

func fromPtr(v *float64) contracts.Metric {
	if v == nil {
		return contracts.Unavailable("missing")
	}
	return contracts.MetricOf(*v)
}
