package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/database"
)

// FactStore reads the ingestion pipeline's tables. It never writes;
// the scoring engine treats them as a snapshot of the world as of the
// calculation date.
type FactStore struct {
	db *database.DB

	// AnnualYears and QuarterCount bound how much history a fetch
	// pulls per entity.
	AnnualYears  int
	QuarterCount int
}

// NewFactStore creates a fact store with standard history depth.
func NewFactStore(db *database.DB) *FactStore {
	return &FactStore{db: db, AnnualYears: 5, QuarterCount: 12}
}

const listEntitiesSQL = `
	SELECT entity_id, sector, industry, is_reit
	FROM entities
	WHERE active AND listed_on <= $1
	ORDER BY entity_id`

// ListEntities returns the scoreable universe as of the date.
func (s *FactStore) ListEntities(ctx context.Context, date time.Time) ([]contracts.EntityRef, error) {
	rows, err := s.db.Pool.Query(ctx, listEntitiesSQL, date)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []contracts.EntityRef
	for rows.Next() {
		var ref contracts.EntityRef
		if err := rows.Scan(&ref.EntityID, &ref.Sector, &ref.Industry, &ref.IsREIT); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

const fiscalPeriodsSQL = `
	SELECT period_end, revenue, gross_profit, operating_income, ebitda,
	       net_income, eps_diluted, interest_expense, income_tax_expense,
	       operating_cash_flow, free_cash_flow, total_assets, total_liabilities,
	       current_assets, current_liabilities, cash, short_term_debt,
	       long_term_debt, shareholders_equity, retained_earnings,
	       shares_outstanding, dividend_per_share, ffo_per_share
	FROM fiscal_periods
	WHERE entity_id = $1 AND period_type = $2 AND period_end <= $3
	ORDER BY period_end DESC
	LIMIT $4`

func (s *FactStore) fetchPeriods(ctx context.Context, entityID, periodType string, date time.Time, limit int) ([]contracts.FiscalPeriod, error) {
	rows, err := s.db.Pool.Query(ctx, fiscalPeriodsSQL, entityID, periodType, date, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s periods: %w", periodType, err)
	}
	defer rows.Close()

	var out []contracts.FiscalPeriod
	for rows.Next() {
		var p contracts.FiscalPeriod
		if err := rows.Scan(&p.PeriodEnd, &p.Revenue, &p.GrossProfit, &p.OperatingIncome,
			&p.EBITDA, &p.NetIncome, &p.EPSDiluted, &p.InterestExpense, &p.IncomeTaxExpense,
			&p.OperatingCashFlow, &p.FreeCashFlow, &p.TotalAssets, &p.TotalLiabilities,
			&p.CurrentAssets, &p.CurrentLiabilities, &p.Cash, &p.ShortTermDebt,
			&p.LongTermDebt, &p.ShareholdersEquity, &p.RetainedEarnings,
			&p.SharesOutstanding, &p.DividendPerShare, &p.FFOPerShare); err != nil {
			return nil, fmt.Errorf("scan fiscal period: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const priceSummarySQL = `
	SELECT price, market_cap, shares_outstanding, beta,
	       return_1m, return_3m, return_6m, return_12m,
	       volatility_1y, max_drawdown_1y
	FROM price_summaries
	WHERE entity_id = $1 AND as_of = $2`

const analystSummarySQL = `
	SELECT total, buy, hold, sell, avg_price_target, eps_next_year, growth_5y
	FROM analyst_summaries
	WHERE entity_id = $1 AND as_of = $2`

const ownershipSummarySQL = `
	SELECT insider_net_shares_90d, institution_count, institution_shares, prev_inst_shares
	FROM ownership_summaries
	WHERE entity_id = $1 AND as_of = $2`

const sentimentSummarySQL = `
	SELECT article_count, avg_sentiment, positive_count, negative_count
	FROM sentiment_summaries
	WHERE entity_id = $1 AND as_of = $2`

const filingAgeSQL = `
	SELECT ($2::date - MAX(filed_on))::int
	FROM filings
	WHERE entity_id = $1 AND filed_on <= $2`

const scoreHistoryValuesSQL = `
	SELECT s.score
	FROM score_records s
	JOIN score_runs r ON r.run_id = s.run_id AND r.is_current
	WHERE s.entity_id = $1 AND s.calc_date < $2
	ORDER BY s.calc_date DESC
	LIMIT 10`

// FetchFacts loads the full input bundle for one entity. Side tables
// with no row for the date leave their section zero-valued; the
// normalizer treats absent fields as unavailable.
func (s *FactStore) FetchFacts(ctx context.Context, entityID string, date time.Time) (*contracts.EntityFacts, error) {
	const entitySQL = `SELECT entity_id, sector, industry, is_reit FROM entities WHERE entity_id = $1`
	facts := &contracts.EntityFacts{Date: date}
	err := s.db.Pool.QueryRow(ctx, entitySQL, entityID).
		Scan(&facts.EntityID, &facts.Sector, &facts.Industry, &facts.IsREIT)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("query entity %s: %w", entityID, err)
	}

	if facts.Annual, err = s.fetchPeriods(ctx, entityID, "annual", date, s.AnnualYears); err != nil {
		return nil, err
	}
	if facts.Quarters, err = s.fetchPeriods(ctx, entityID, "quarterly", date, s.QuarterCount); err != nil {
		return nil, err
	}

	err = s.db.Pool.QueryRow(ctx, priceSummarySQL, entityID, date).Scan(
		&facts.Price.Price, &facts.Price.MarketCap, &facts.Price.SharesOutstanding,
		&facts.Price.Beta, &facts.Price.Return1M, &facts.Price.Return3M,
		&facts.Price.Return6M, &facts.Price.Return12M,
		&facts.Price.Volatility1Y, &facts.Price.MaxDrawdown1Y)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query price summary: %w", err)
	}

	err = s.db.Pool.QueryRow(ctx, analystSummarySQL, entityID, date).Scan(
		&facts.Analysts.Total, &facts.Analysts.Buy, &facts.Analysts.Hold,
		&facts.Analysts.Sell, &facts.Analysts.AvgPriceTarget,
		&facts.Analysts.EPSNextYear, &facts.Analysts.Growth5Y)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query analyst summary: %w", err)
	}

	err = s.db.Pool.QueryRow(ctx, ownershipSummarySQL, entityID, date).Scan(
		&facts.Ownership.InsiderNetShares90D, &facts.Ownership.InstitutionCount,
		&facts.Ownership.InstitutionShares, &facts.Ownership.PrevInstShares)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query ownership summary: %w", err)
	}

	err = s.db.Pool.QueryRow(ctx, sentimentSummarySQL, entityID, date).Scan(
		&facts.Sentiment.ArticleCount, &facts.Sentiment.AvgSentiment,
		&facts.Sentiment.PositiveCount, &facts.Sentiment.NegativeCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query sentiment summary: %w", err)
	}

	var filingAge *int
	err = s.db.Pool.QueryRow(ctx, filingAgeSQL, entityID, date).Scan(&filingAge)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query filing age: %w", err)
	}
	if filingAge != nil {
		facts.FilingAgeDays = *filingAge
	} else {
		facts.FilingAgeDays = 9999 // never filed
	}

	rows, err := s.db.Pool.Query(ctx, scoreHistoryValuesSQL, entityID, date)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan score history: %w", err)
		}
		facts.ScoreHistory = append(facts.ScoreHistory, v)
	}
	return facts, rows.Err()
}

const macroSQL = `
	SELECT as_of, vix, index_ytd_return, ten_year_yield_delta
	FROM macro_indicators
	WHERE as_of <= $1
	ORDER BY as_of DESC
	LIMIT 1`

// FetchMacro loads the most recent macro indicators at or before the
// date.
func (s *FactStore) FetchMacro(ctx context.Context, date time.Time) (*contracts.MacroIndicators, error) {
	var m contracts.MacroIndicators
	err := s.db.Pool.QueryRow(ctx, macroSQL, date).Scan(
		&m.Date, &m.VIX, &m.IndexYTDReturn, &m.TenYearYieldDelta)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query macro indicators: %w", err)
	}
	return &m, nil
}
