package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/investorcenter/icscore/internal/confidence"
	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/internal/engineconfig"
	"github.com/investorcenter/icscore/internal/factors"
	"github.com/investorcenter/icscore/internal/metrics"
	"github.com/investorcenter/icscore/internal/peerstats"
	"github.com/investorcenter/icscore/internal/regime"
	"github.com/investorcenter/icscore/internal/valuation"
	"github.com/investorcenter/icscore/pkg/logger"
)

// Engine runs the daily scoring batch. A run has two phases with a
// hard barrier between them: first every entity's facts are normalized
// and the day's peer distributions computed, then every entity is
// scored against those frozen distributions. Nothing is published
// until every entity either scored or was explicitly skipped; a
// failure inside the run publishes nothing.
type Engine struct {
	facts     contracts.FactStore
	statsRepo contracts.PeerStatsRepository
	writer    contracts.ScoreWriter
	reader    contracts.ScoreReader
	cfg       *engineconfig.Config
	bank      *valuation.Bank
	log       *logger.Logger
	workers   int
}

// Params collects the engine's collaborators.
type Params struct {
	Facts     contracts.FactStore
	StatsRepo contracts.PeerStatsRepository
	Writer    contracts.ScoreWriter
	Reader    contracts.ScoreReader
	Config    *engineconfig.Config
	Logger    *logger.Logger
	Workers   int
}

// New creates a scoring engine.
func New(p Params) *Engine {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	cfg := p.Config
	if cfg == nil {
		cfg = engineconfig.Default()
	}
	return &Engine{
		facts:     p.Facts,
		statsRepo: p.StatsRepo,
		writer:    p.Writer,
		reader:    p.Reader,
		cfg:       cfg,
		bank:      valuation.NewBank(cfg.Valuation),
		log:       p.Logger,
		workers:   workers,
	}
}

// entityState carries one entity between the two phases.
type entityState struct {
	ref   contracts.EntityRef
	facts *contracts.EntityFacts
	snap  *metrics.Snapshot

	// phase 2 outputs
	record *contracts.ScoreRecord
	vals   contracts.ValuationSet
}

// Run scores the whole universe for one date and publishes the result
// as a unit. The same date, facts and tuning always reproduce the
// same records.
func (e *Engine) Run(ctx context.Context, date time.Time) (*contracts.RunResult, error) {
	startedAt := time.Now().UTC()
	runID := uuid.NewString()
	log := e.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"date":   date.Format("2006-01-02"),
	})

	reg := e.detectRegime(ctx, date, log)

	entities, err := e.facts.ListEntities(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: empty universe for %s", contracts.ErrBatchIntegrity, date.Format("2006-01-02"))
	}
	// Iteration order is pinned so reruns walk the universe
	// identically.
	sort.Slice(entities, func(i, j int) bool { return entities[i].EntityID < entities[j].EntityID })

	states, stats, err := e.statsPhase(ctx, date, entities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrBatchIntegrity, err)
	}

	skipped, err := e.scoringPhase(ctx, date, runID, reg, states, stats)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrBatchIntegrity, err)
	}

	run := e.assemble(date, runID, reg, states, startedAt, skipped)
	if err := e.writer.PublishRun(ctx, run); err != nil {
		return nil, fmt.Errorf("%w: publish: %v", contracts.ErrBatchIntegrity, err)
	}
	if e.statsRepo != nil {
		if err := e.statsRepo.SaveStats(ctx, runID, stats.All()); err != nil {
			// Scores are already live; distribution rows are
			// diagnostics, not part of the atomic unit.
			log.WithError(err).Warn("Failed to persist peer group statistics")
		}
	}

	log.WithFields(map[string]interface{}{
		"scored":  len(run.Scores),
		"skipped": skipped,
		"regime":  string(reg),
		"elapsed": time.Since(startedAt).String(),
	}).Info("Scoring run published")
	return run, nil
}

// detectRegime classifies the market for the date. Missing macro data
// degrades to the neutral regime rather than blocking the whole run.
func (e *Engine) detectRegime(ctx context.Context, date time.Time, log *logger.Logger) contracts.Regime {
	macro, err := e.facts.FetchMacro(ctx, date)
	if err != nil || macro == nil {
		log.WithError(err).Warn("Macro indicators unavailable, assuming neutral regime")
		return contracts.RegimeNeutral
	}
	return regime.Detect(*macro, e.cfg.Regime)
}

// statsPhase loads and normalizes every entity in parallel, then
// builds the day's peer distributions. Scoring cannot start until
// every observation is in.
func (e *Engine) statsPhase(ctx context.Context, date time.Time, entities []contracts.EntityRef) ([]*entityState, *peerstats.StatsSet, error) {
	states := make([]*entityState, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, ref := range entities {
		i, ref := i, ref
		g.Go(func() error {
			facts, err := e.facts.FetchFacts(gctx, ref.EntityID, date)
			if err != nil {
				return fmt.Errorf("fetch facts for %s: %w", ref.EntityID, err)
			}
			states[i] = &entityState{ref: ref, facts: facts, snap: metrics.Normalize(facts)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	refs := make(map[string]contracts.EntityRef, len(entities))
	var obs []contracts.MetricObservation
	for _, st := range states {
		refs[st.ref.EntityID] = st.ref
		obs = append(obs, st.snap.Observations()...)
	}

	agg := peerstats.NewAggregator()
	agg.MinSampleSize = e.cfg.MinSampleSize
	return states, agg.Build(date, refs, obs), nil
}

// scoringPhase scores every entity against the frozen distributions.
// Entities with nothing scorable are skipped, never published as
// zeros.
func (e *Engine) scoringPhase(ctx context.Context, date time.Time, runID string, reg contracts.Regime, states []*entityState, stats *peerstats.StatsSet) (int, error) {
	calc := factors.NewCalculator(stats)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, st := range states {
		st := st
		g.Go(func() error {
			st.vals = e.bank.Evaluate(st.facts, runID)
			factorScores := calc.All(st.snap, st.facts, st.vals)
			weights := regime.Resolve(st.ref.Sector, reg)

			overall := Overall(factorScores, weights)
			if !overall.Valid {
				return nil // skipped, counted by assemble
			}

			record := &contracts.ScoreRecord{
				EntityID:   st.ref.EntityID,
				Date:       date,
				RunID:      runID,
				Score:      overall.Value,
				Rating:     contracts.RatingFor(overall.Value),
				Factors:    factorScores,
				Weights:    weights,
				Regime:     reg,
				Confidence: confidence.Estimate(factorScores, st.facts),
				ConfigHash: e.cfg.Hash,
			}
			if prior, err := e.latestPrior(gctx, st.ref.EntityID, date); err != nil {
				return err
			} else if prior != nil {
				change := record.Score - prior.Score
				record.ScoreChange = &change
			}
			st.record = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	skipped := 0
	for _, st := range states {
		if st.record == nil {
			skipped++
		}
	}
	return skipped, nil
}

// latestPrior fetches the entity's most recent published score from a
// calculation date before this run's, nil when no earlier date exists.
// Bounding by date keeps same-date reruns reproducible: a correction
// run recomputes the change against the prior date, not against the
// run it is replacing.
func (e *Engine) latestPrior(ctx context.Context, entityID string, date time.Time) (*contracts.ScoreRecord, error) {
	if e.reader == nil {
		return nil, nil
	}
	prior, err := e.reader.PriorScore(ctx, entityID, date)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest score for %s: %w", entityID, err)
	}
	return prior, nil
}

// assemble collects the per-entity outputs into the publishable unit,
// in entity order, with sector ranks filled in.
func (e *Engine) assemble(date time.Time, runID string, reg contracts.Regime, states []*entityState, startedAt time.Time, skipped int) *contracts.RunResult {
	computedAt := time.Now().UTC()

	run := &contracts.RunResult{
		RunID:        runID,
		Date:         date,
		Regime:       reg,
		ConfigHash:   e.cfg.Hash,
		StartedAt:    startedAt,
		FinishedAt:   computedAt,
		EntityCount:  len(states),
		SkippedCount: skipped,
	}
	sectors := make(map[string]string, len(states))
	for _, st := range states {
		run.Observations = append(run.Observations, st.snap.Observations()...)
		if st.record == nil {
			continue
		}
		st.record.ComputedAt = computedAt
		run.Scores = append(run.Scores, st.record)
		run.Valuations = append(run.Valuations, st.vals)
		sectors[st.ref.EntityID] = st.ref.Sector
	}
	assignSectorRanks(run.Scores, sectors)
	return run
}
