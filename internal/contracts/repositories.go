package contracts

import (
	"context"
	"time"
)

// FactStore serves the validated inputs for a run. Implementations
// read from the ingestion collaborator's tables and never mutate them.
type FactStore interface {
	// ListEntities returns the scoreable universe for a date.
	ListEntities(ctx context.Context, date time.Time) ([]EntityRef, error)
	// FetchFacts loads the full fact bundle for one entity.
	FetchFacts(ctx context.Context, entityID string, date time.Time) (*EntityFacts, error)
	// FetchMacro loads the macro indicators for regime detection.
	FetchMacro(ctx context.Context, date time.Time) (*MacroIndicators, error)
}

// PeerStatsRepository persists per-run peer group summaries.
type PeerStatsRepository interface {
	SaveStats(ctx context.Context, runID string, stats []*PeerGroupStats) error
}

// ScoreWriter persists a completed run atomically: observations,
// factor breakdowns, valuations, and score records all land or none
// do, and only then does the run become the visible one for its date.
type ScoreWriter interface {
	PublishRun(ctx context.Context, run *RunResult) error
}

// ScoreReader serves published scores to the API and to the next
// run's change computation.
type ScoreReader interface {
	LatestScore(ctx context.Context, entityID string) (*ScoreRecord, error)
	// PriorScore returns the entity's most recent published score for
	// a calculation date strictly before the given one. A rerun of the
	// same date must not see that date's earlier runs here, or the
	// republished change would collapse to zero.
	PriorScore(ctx context.Context, entityID string, before time.Time) (*ScoreRecord, error)
	ScoreHistory(ctx context.Context, entityID string, limit int) ([]*ScoreRecord, error)
	SectorScores(ctx context.Context, sector string, date time.Time) ([]*ScoreRecord, error)
	LatestValuations(ctx context.Context, entityID string) (ValuationSet, error)
}

// RunResult is the complete output of one batch run, handed to the
// writer for all-or-nothing publication.
type RunResult struct {
	RunID        string
	Date         time.Time
	Regime       Regime
	ConfigHash   string
	Scores       []*ScoreRecord
	Valuations   []ValuationSet
	Observations []MetricObservation
	StartedAt    time.Time
	FinishedAt   time.Time
	EntityCount  int
	SkippedCount int
}
