package scheduler

import (
	"context"
	"time"

	"github.com/investorcenter/icscore/internal/scoring"
	"github.com/investorcenter/icscore/pkg/logger"
)

// ScoringJob runs the daily scoring batch. The engine's all-or-nothing
// publish means each retry attempt recomputes the full date.
type ScoringJob struct {
	engine   *scoring.Engine
	schedule string
	logger   *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewScoringJob creates the daily scoring job.
func NewScoringJob(engine *scoring.Engine, schedule string, log *logger.Logger) *ScoringJob {
	return &ScoringJob{
		engine:   engine,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name implements Job.
func (j *ScoringJob) Name() string { return "daily-scoring" }

// Schedule implements Job.
func (j *ScoringJob) Schedule() string { return j.schedule }

// Run scores the universe for today, normalized to a UTC date.
func (j *ScoringJob) Run(ctx context.Context) error {
	date := j.now().UTC().Truncate(24 * time.Hour)

	run, err := j.engine.Run(ctx, date)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"run_id":  run.RunID,
		"scored":  len(run.Scores),
		"skipped": run.SkippedCount,
	}).Info("Daily scoring finished")
	return nil
}
