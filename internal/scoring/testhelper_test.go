package scoring

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/investorcenter/icscore/internal/contracts"
)

func fp(v float64) *float64 { return &v }

// fakeFactStore serves a fixed universe from memory.
type fakeFactStore struct {
	facts map[string]*contracts.EntityFacts
	macro *contracts.MacroIndicators

	listErr  error
	fetchErr map[string]error
}

func newFakeFactStore() *fakeFactStore {
	return &fakeFactStore{
		facts:    make(map[string]*contracts.EntityFacts),
		macro:    &contracts.MacroIndicators{VIX: 16, IndexYTDReturn: 4},
		fetchErr: make(map[string]error),
	}
}

func (f *fakeFactStore) add(facts *contracts.EntityFacts) {
	f.facts[facts.EntityID] = facts
}

func (f *fakeFactStore) ListEntities(_ context.Context, _ time.Time) ([]contracts.EntityRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.facts))
	for id := range f.facts {
		ids = append(ids, id)
	}
	// Deliberately shuffled order: the engine must sort.
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	out := make([]contracts.EntityRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.facts[id].EntityRef)
	}
	return out, nil
}

func (f *fakeFactStore) FetchFacts(_ context.Context, entityID string, _ time.Time) (*contracts.EntityFacts, error) {
	if err := f.fetchErr[entityID]; err != nil {
		return nil, err
	}
	facts, ok := f.facts[entityID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return facts, nil
}

func (f *fakeFactStore) FetchMacro(_ context.Context, _ time.Time) (*contracts.MacroIndicators, error) {
	if f.macro == nil {
		return nil, contracts.ErrNotFound
	}
	return f.macro, nil
}

// memPublisher collects published runs and serves them back as the
// reader, mirroring the current-run flip.
type memPublisher struct {
	mu         sync.Mutex
	runs       []*contracts.RunResult
	publishErr error
}

func (m *memPublisher) PublishRun(_ context.Context, run *contracts.RunResult) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memPublisher) current() *contracts.RunResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil
	}
	return m.runs[len(m.runs)-1]
}

func (m *memPublisher) LatestScore(_ context.Context, entityID string) (*contracts.ScoreRecord, error) {
	run := m.current()
	if run == nil {
		return nil, contracts.ErrNotFound
	}
	for _, rec := range run.Scores {
		if rec.EntityID == entityID {
			return rec, nil
		}
	}
	return nil, contracts.ErrNotFound
}

func (m *memPublisher) PriorScore(_ context.Context, entityID string, before time.Time) (*contracts.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Newest publish wins per date, so walk the runs backwards and
	// take the first record seen for the latest date before the bound.
	var best *contracts.ScoreRecord
	seen := map[time.Time]bool{}
	for i := len(m.runs) - 1; i >= 0; i-- {
		run := m.runs[i]
		if !run.Date.Before(before) || seen[run.Date] {
			continue
		}
		seen[run.Date] = true
		for _, rec := range run.Scores {
			if rec.EntityID == entityID && (best == nil || rec.Date.After(best.Date)) {
				best = rec
			}
		}
	}
	if best == nil {
		return nil, contracts.ErrNotFound
	}
	return best, nil
}

func (m *memPublisher) ScoreHistory(ctx context.Context, entityID string, _ int) ([]*contracts.ScoreRecord, error) {
	rec, err := m.LatestScore(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return []*contracts.ScoreRecord{rec}, nil
}

func (m *memPublisher) SectorScores(_ context.Context, sector string, _ time.Time) ([]*contracts.ScoreRecord, error) {
	run := m.current()
	if run == nil {
		return nil, contracts.ErrNotFound
	}
	return run.Scores, nil
}

func (m *memPublisher) LatestValuations(_ context.Context, entityID string) (contracts.ValuationSet, error) {
	run := m.current()
	if run == nil {
		return nil, contracts.ErrNotFound
	}
	for i, rec := range run.Scores {
		if rec.EntityID == entityID {
			return run.Valuations[i], nil
		}
	}
	return nil, contracts.ErrNotFound
}

type memStatsRepo struct {
	mu    sync.Mutex
	saved []*contracts.PeerGroupStats
}

func (m *memStatsRepo) SaveStats(_ context.Context, _ string, stats []*contracts.PeerGroupStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, stats...)
	return nil
}

var errBoom = errors.New("boom")

// makeFacts builds a fully populated entity whose fundamentals scale
// with the seed, so peers differ but every metric is derivable.
func makeFacts(id, sector, industry string, seed float64, date time.Time) *contracts.EntityFacts {
	rev := 1000 * seed
	return &contracts.EntityFacts{
		EntityRef: contracts.EntityRef{EntityID: id, Sector: sector, Industry: industry},
		Date:      date,
		Annual: []contracts.FiscalPeriod{
			{
				Revenue:            fp(rev),
				GrossProfit:        fp(rev * 0.45),
				OperatingIncome:    fp(rev * 0.25),
				EBITDA:             fp(rev * 0.30),
				NetIncome:          fp(rev * 0.18),
				EPSDiluted:         fp(2 * seed),
				InterestExpense:    fp(rev * 0.01),
				OperatingCashFlow:  fp(rev * 0.22),
				FreeCashFlow:       fp(rev * 0.15),
				TotalAssets:        fp(rev * 1.5),
				TotalLiabilities:   fp(rev * 0.7),
				CurrentAssets:      fp(rev * 0.5),
				CurrentLiabilities: fp(rev * 0.3),
				Cash:               fp(rev * 0.2),
				LongTermDebt:       fp(rev * 0.25),
				ShareholdersEquity: fp(rev * 0.8),
				RetainedEarnings:   fp(rev * 0.4),
				SharesOutstanding:  fp(100),
				DividendPerShare:   fp(0.5 * seed),
			},
			{
				Revenue:            fp(rev * 0.92),
				GrossProfit:        fp(rev * 0.40),
				NetIncome:          fp(rev * 0.16),
				EPSDiluted:         fp(1.8 * seed),
				FreeCashFlow:       fp(rev * 0.13),
				TotalAssets:        fp(rev * 1.45),
				CurrentAssets:      fp(rev * 0.45),
				CurrentLiabilities: fp(rev * 0.30),
				LongTermDebt:       fp(rev * 0.30),
				SharesOutstanding:  fp(100),
			},
			{Revenue: fp(rev * 0.85), EPSDiluted: fp(1.6 * seed)},
			{Revenue: fp(rev * 0.78), EPSDiluted: fp(1.5 * seed)},
		},
		Price: contracts.PriceSummary{
			Price:         fp(30 * seed),
			MarketCap:     fp(3000 * seed),
			Beta:          fp(0.8 + seed*0.1),
			Return1M:      fp(seed),
			Return3M:      fp(seed * 2),
			Return6M:      fp(seed * 3),
			Return12M:     fp(seed * 4),
			Volatility1Y:  fp(15 + seed*2),
			MaxDrawdown1Y: fp(10 + seed),
		},
		Analysts: contracts.AnalystSummary{
			Total: 12, Buy: 8, Hold: 3, Sell: 1,
			EPSNextYear: fp(2.3 * seed),
			Growth5Y:    fp(8 + seed),
		},
		Ownership: contracts.OwnershipSummary{
			InsiderNetShares90D: fp(500 * seed),
			InstitutionCount:    60,
			InstitutionShares:   fp(50_000),
			PrevInstShares:      fp(48_000),
		},
		Sentiment: contracts.SentimentSummary{
			ArticleCount: 10,
			AvgSentiment: fp(55 + seed),
		},
		FilingAgeDays: 40,
		ScoreHistory:  []float64{60 + seed, 61 + seed, 60.5 + seed},
	}
}
