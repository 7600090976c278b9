package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/logger"
)

var testDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func seedUniverse(store *fakeFactStore) {
	for i, id := range []string{"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT"} {
		store.add(makeFacts(id, "Information Technology", "Software", float64(i+1), testDate))
	}
	for i, id := range []string{"GOLF", "HOTEL", "INDIA", "JULIET", "KILO"} {
		store.add(makeFacts(id, "Financials", "Banks", float64(i+2), testDate))
	}
}

func newTestEngine(store *fakeFactStore, pub *memPublisher) *Engine {
	return New(Params{
		Facts:     store,
		StatsRepo: &memStatsRepo{},
		Writer:    pub,
		Reader:    pub,
		Logger:    logger.NewNop(),
		Workers:   4,
	})
}

func TestRunScoresUniverse(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	pub := &memPublisher{}

	run, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 11, run.EntityCount)
	assert.Equal(t, 0, run.SkippedCount)
	require.Len(t, run.Scores, 11)
	require.Len(t, run.Valuations, 11)
	assert.NotEmpty(t, run.Observations)
	assert.Equal(t, contracts.RegimeNeutral, run.Regime)

	// Records arrive in entity order.
	for i := 1; i < len(run.Scores); i++ {
		assert.Less(t, run.Scores[i-1].EntityID, run.Scores[i].EntityID)
	}
	for _, rec := range run.Scores {
		assert.GreaterOrEqual(t, rec.Score, 1.0)
		assert.LessOrEqual(t, rec.Score, 100.0)
		assert.Equal(t, contracts.RatingFor(rec.Score), rec.Rating)
		assert.Equal(t, run.RunID, rec.RunID)
		assert.InDelta(t, 1.0, rec.Weights.Sum(), 1e-9)
		assert.Len(t, rec.Factors, 6)
		assert.Greater(t, rec.Confidence.Score, 0.0)
		assert.Nil(t, rec.ScoreChange) // first ever run
		assert.Greater(t, rec.SectorRank, 0)
		assert.LessOrEqual(t, rec.SectorRank, rec.SectorSize)
	}
}

func TestRunSectorRanks(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	pub := &memPublisher{}

	run, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.NoError(t, err)

	bySector := map[string][]*contracts.ScoreRecord{}
	for _, rec := range run.Scores {
		sector := store.facts[rec.EntityID].Sector
		bySector[sector] = append(bySector[sector], rec)
	}
	require.Len(t, bySector["Information Technology"], 6)
	require.Len(t, bySector["Financials"], 5)

	for _, group := range bySector {
		seen := map[int]bool{}
		for _, rec := range group {
			assert.Equal(t, len(group), rec.SectorSize)
			assert.False(t, seen[rec.SectorRank], "duplicate rank %d", rec.SectorRank)
			seen[rec.SectorRank] = true
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)

	pubA := &memPublisher{}
	runA, err := newTestEngine(store, pubA).Run(context.Background(), testDate)
	require.NoError(t, err)

	pubB := &memPublisher{}
	runB, err := newTestEngine(store, pubB).Run(context.Background(), testDate)
	require.NoError(t, err)

	require.Len(t, runB.Scores, len(runA.Scores))
	for i := range runA.Scores {
		a, b := runA.Scores[i], runB.Scores[i]
		assert.Equal(t, a.EntityID, b.EntityID)
		assert.Equal(t, a.Score, b.Score)
		assert.Equal(t, a.Rating, b.Rating)
		assert.Equal(t, a.SectorRank, b.SectorRank)
		assert.Equal(t, a.Weights, b.Weights)
		assert.Equal(t, a.Factors, b.Factors)
		assert.Equal(t, a.Confidence, b.Confidence)
	}
	assert.Equal(t, runA.Observations, runB.Observations)
}

func TestRunScoreChangeAgainstPriorRun(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	pub := &memPublisher{}
	engine := newTestEngine(store, pub)

	first, err := engine.Run(context.Background(), testDate)
	require.NoError(t, err)

	// Second run over the same inputs: identical scores, zero change.
	second, err := engine.Run(context.Background(), testDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	for i, rec := range second.Scores {
		require.NotNil(t, rec.ScoreChange)
		assert.InDelta(t, rec.Score-first.Scores[i].Score, *rec.ScoreChange, 1e-9)
	}
}

func TestRunSameDateRerunRecomputesChangeFromPriorDate(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	pub := &memPublisher{}
	engine := newTestEngine(store, pub)

	// First ever run: no earlier calculation date, so no change. A
	// correction rerun of the same date must not treat the run it
	// replaces as the prior and report a zero change.
	_, err := engine.Run(context.Background(), testDate)
	require.NoError(t, err)

	rerun, err := engine.Run(context.Background(), testDate)
	require.NoError(t, err)
	for _, rec := range rerun.Scores {
		assert.Nil(t, rec.ScoreChange, "entity %s", rec.EntityID)
	}

	// Once an earlier date exists, a rerun of the later date keeps
	// reporting the delta against it, identically to the first publish.
	nextDate := testDate.AddDate(0, 0, 1)
	second, err := engine.Run(context.Background(), nextDate)
	require.NoError(t, err)

	secondRerun, err := engine.Run(context.Background(), nextDate)
	require.NoError(t, err)
	require.Len(t, secondRerun.Scores, len(second.Scores))
	for i, rec := range secondRerun.Scores {
		require.NotNil(t, rec.ScoreChange)
		require.NotNil(t, second.Scores[i].ScoreChange)
		assert.InDelta(t, *second.Scores[i].ScoreChange, *rec.ScoreChange, 1e-9)
	}
}

func TestRunPublishFailurePublishesNothing(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	pub := &memPublisher{publishErr: errBoom}

	_, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrBatchIntegrity)
	assert.Nil(t, pub.current())
}

func TestRunFetchFailureAbortsDate(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	store.fetchErr["DELTA"] = errBoom
	pub := &memPublisher{}

	_, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrBatchIntegrity)
	assert.Nil(t, pub.current())
}

func TestRunEmptyUniverse(t *testing.T) {
	store := newFakeFactStore()
	pub := &memPublisher{}

	_, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	assert.ErrorIs(t, err, contracts.ErrBatchIntegrity)
}

func TestRunMissingMacroAssumesNeutral(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	store.macro = nil
	pub := &memPublisher{}

	run, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, contracts.RegimeNeutral, run.Regime)
}

func TestRunBearRegimeTiltsWeights(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	store.macro = &contracts.MacroIndicators{VIX: 22, IndexYTDReturn: -15}
	pub := &memPublisher{}

	run, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, contracts.RegimeBear, run.Regime)
	for _, rec := range run.Scores {
		assert.Equal(t, contracts.RegimeBear, rec.Regime)
		assert.InDelta(t, 1.0, rec.Weights.Sum(), 1e-9)
	}
}

func TestRunSkipsUnscorableEntities(t *testing.T) {
	store := newFakeFactStore()
	seedUniverse(store)
	// A shell with no fundamentals, no prices, no peers to rank with.
	store.add(&contracts.EntityFacts{
		EntityRef: contracts.EntityRef{EntityID: "ZOMBIE", Sector: "Utilities", Industry: "Shells"},
		Date:      testDate,
	})
	pub := &memPublisher{}

	run, err := newTestEngine(store, pub).Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 12, run.EntityCount)
	assert.Equal(t, 1, run.SkippedCount)
	require.Len(t, run.Scores, 11)
	for _, rec := range run.Scores {
		assert.NotEqual(t, "ZOMBIE", rec.EntityID)
	}
}
