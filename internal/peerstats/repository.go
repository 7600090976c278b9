package peerstats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/database"
	"github.com/investorcenter/icscore/pkg/logger"
)

// Repository persists peer group summaries. Rows are write-once per
// (date, run); historical rows are never mutated so past runs can be
// replayed against the statistics they actually used.
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates a peer statistics repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const insertStatsSQL = `
	INSERT INTO peer_group_stats (
		run_id, calc_date, scope, group_name, metric, sample_size,
		mean, stddev, min, p10, p25, median, p75, p90, max
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// SaveStats inserts every distribution of a run in one batch.
func (r *Repository) SaveStats(ctx context.Context, runID string, stats []*contracts.PeerGroupStats) error {
	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(insertStatsSQL,
			runID, s.Date, string(s.Scope), s.Group, string(s.Metric), s.SampleSize,
			s.Mean, s.StdDev, s.Min, s.P10, s.P25, s.Median, s.P75, s.P90, s.Max,
		)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range stats {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert peer group stats: %w", err)
		}
	}

	r.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"groups": len(stats),
	}).Debug("Peer group statistics saved")
	return nil
}
