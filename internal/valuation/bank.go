package valuation

import (
	"fmt"

	"github.com/investorcenter/icscore/internal/contracts"
)

// Bank evaluates every model for an entity. Models are independent;
// one failing leaves the others standing.
type Bank struct {
	assumptions Assumptions
}

// NewBank creates a model bank with the given capital-market
// assumptions.
func NewBank(a Assumptions) *Bank {
	return &Bank{assumptions: a}
}

// Evaluate runs all five models against an entity's facts and returns
// the full estimate set. Fair value models report upside against the
// current price; screen models report raw points.
func (b *Bank) Evaluate(facts *contracts.EntityFacts, runID string) contracts.ValuationSet {
	set := make(contracts.ValuationSet, 5)
	var cur, prior *contracts.FiscalPeriod
	if len(facts.Annual) > 0 {
		cur = &facts.Annual[0]
	}
	if len(facts.Annual) > 1 {
		prior = &facts.Annual[1]
	}

	wacc, netDebt, shares := b.capitalInputs(facts, cur)

	dcf := contracts.Unavailable("missing fiscal year")
	if cur != nil {
		dcf = b.runDCF(facts, cur, wacc, netDebt, shares)
	}
	set[contracts.ModelDCF] = b.fairValueEstimate(facts, runID, contracts.ModelDCF, dcf,
		fmt.Sprintf("wacc=%.4f", wacc),
		fmt.Sprintf("terminal_growth=%.4f", b.assumptions.TerminalGrowth))

	graham := contracts.Unavailable("missing fiscal year")
	if cur != nil && cur.EPSDiluted != nil && cur.ShareholdersEquity != nil && cur.SharesOutstanding != nil && *cur.SharesOutstanding > 0 {
		graham = GrahamNumber(*cur.EPSDiluted, *cur.ShareholdersEquity / *cur.SharesOutstanding)
	}
	set[contracts.ModelGraham] = b.fairValueEstimate(facts, runID, contracts.ModelGraham, graham)

	epv := contracts.Unavailable("missing fiscal year")
	if cur != nil && cur.OperatingIncome != nil && cur.ShareholdersEquity != nil && *cur.ShareholdersEquity > 0 {
		epv = EPV(*cur.OperatingIncome, wacc, netDebt, shares, b.assumptions)
	}
	set[contracts.ModelEPV] = b.fairValueEstimate(facts, runID, contracts.ModelEPV, epv,
		fmt.Sprintf("wacc=%.4f", wacc))

	_, fscore := Piotroski(cur, prior)
	set[contracts.ModelPiotroski] = contracts.ValuationEstimate{
		EntityID: facts.EntityID, Date: facts.Date, RunID: runID,
		Model:  contracts.ModelPiotroski,
		Points: fscore,
		FairValue: contracts.Unavailable("screen model"),
		Upside:    contracts.Unavailable("screen model"),
	}

	z := AltmanZ(cur, facts.Price.MarketCap)
	set[contracts.ModelAltman] = contracts.ValuationEstimate{
		EntityID: facts.EntityID, Date: facts.Date, RunID: runID,
		Model:  contracts.ModelAltman,
		Points: z,
		FairValue: contracts.Unavailable("screen model"),
		Upside:    contracts.Unavailable("screen model"),
	}

	return set
}

// capitalInputs derives the shared WACC, net debt and share count.
func (b *Bank) capitalInputs(facts *contracts.EntityFacts, cur *contracts.FiscalPeriod) (wacc, netDebt, shares float64) {
	var marketCap, totalDebt, interest float64
	if facts.Price.MarketCap != nil {
		marketCap = *facts.Price.MarketCap
	}
	if cur != nil {
		if cur.ShortTermDebt != nil {
			totalDebt += *cur.ShortTermDebt
		}
		if cur.LongTermDebt != nil {
			totalDebt += *cur.LongTermDebt
		}
		if cur.InterestExpense != nil {
			interest = *cur.InterestExpense
		}
		netDebt = totalDebt
		if cur.Cash != nil {
			netDebt -= *cur.Cash
		}
		if cur.SharesOutstanding != nil {
			shares = *cur.SharesOutstanding
		}
	}
	if shares == 0 && facts.Price.SharesOutstanding != nil {
		shares = *facts.Price.SharesOutstanding
	}
	wacc = WACC(facts.Price.Beta, marketCap, totalDebt, interest, b.assumptions)
	return wacc, netDebt, shares
}

func (b *Bank) runDCF(facts *contracts.EntityFacts, cur *contracts.FiscalPeriod, wacc, netDebt, shares float64) contracts.Metric {
	if cur.FreeCashFlow == nil {
		return contracts.Unavailable("missing fcf")
	}
	var growth *float64
	if facts.Analysts.Growth5Y != nil {
		// Consensus growth arrives in percent.
		g := *facts.Analysts.Growth5Y / 100
		growth = &g
	}
	return DCF(DCFInputs{
		FCF:     *cur.FreeCashFlow,
		Growth:  growth,
		WACC:    wacc,
		NetDebt: netDebt,
		Shares:  shares,
	}, b.assumptions)
}

func (b *Bank) fairValueEstimate(facts *contracts.EntityFacts, runID string, model contracts.ValuationModel, fv contracts.Metric, inputs ...string) contracts.ValuationEstimate {
	est := contracts.ValuationEstimate{
		EntityID: facts.EntityID, Date: facts.Date, RunID: runID,
		Model:     model,
		FairValue: fv,
		Upside:    contracts.Unavailable("no fair value"),
		Inputs:    inputs,
	}
	if fv.Valid && facts.Price.Price != nil && *facts.Price.Price > 0 {
		est.Upside = contracts.MetricOf((fv.Value - *facts.Price.Price) / *facts.Price.Price * 100)
	}
	return est
}
