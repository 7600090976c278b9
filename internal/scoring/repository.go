package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/database"
	"github.com/investorcenter/icscore/pkg/logger"
)

// Repository persists and serves score runs. Score rows are append
// only: a rerun for a date inserts fresh rows under a new run ID and
// flips the current-run pointer inside the same transaction, so
// readers switch between complete runs and never see a half-written
// date. Prior runs stay queryable for point-in-time replay.
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates a score repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const insertRunSQL = `
	INSERT INTO score_runs (run_id, calc_date, regime, config_hash,
		entity_count, skipped_count, started_at, finished_at, is_current)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)`

const insertScoreSQL = `
	INSERT INTO score_records (run_id, entity_id, calc_date, score, rating,
		factors, weights, regime, confidence, score_change,
		sector_rank, sector_size, config_hash, computed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const insertValuationSQL = `
	INSERT INTO valuation_estimates (run_id, entity_id, calc_date, model,
		fair_value, upside, points, assumptions)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertObservationSQL = `
	INSERT INTO metric_observations (run_id, entity_id, metric, value, valid, reason)
	VALUES ($1, $2, $3, $4, $5, $6)`

const flipCurrentSQL = `
	UPDATE score_runs SET is_current = (run_id = $2) WHERE calc_date = $1`

// PublishRun writes the whole run and makes it the visible one for
// its date in a single transaction.
func (r *Repository) PublishRun(ctx context.Context, run *contracts.RunResult) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertRunSQL,
		run.RunID, run.Date, string(run.Regime), run.ConfigHash,
		run.EntityCount, run.SkippedCount, run.StartedAt, run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	batch := &pgx.Batch{}
	queued := 0
	for _, rec := range run.Scores {
		factorsJSON, err := json.Marshal(rec.Factors)
		if err != nil {
			return fmt.Errorf("marshal factors for %s: %w", rec.EntityID, err)
		}
		weightsJSON, err := json.Marshal(rec.Weights)
		if err != nil {
			return fmt.Errorf("marshal weights for %s: %w", rec.EntityID, err)
		}
		confJSON, err := json.Marshal(rec.Confidence)
		if err != nil {
			return fmt.Errorf("marshal confidence for %s: %w", rec.EntityID, err)
		}
		batch.Queue(insertScoreSQL,
			rec.RunID, rec.EntityID, rec.Date, rec.Score, string(rec.Rating),
			factorsJSON, weightsJSON, string(rec.Regime), confJSON, rec.ScoreChange,
			rec.SectorRank, rec.SectorSize, rec.ConfigHash, rec.ComputedAt)
		queued++
	}
	for _, set := range run.Valuations {
		for _, model := range []contracts.ValuationModel{
			contracts.ModelDCF, contracts.ModelGraham, contracts.ModelEPV,
			contracts.ModelPiotroski, contracts.ModelAltman,
		} {
			est, ok := set[model]
			if !ok {
				continue
			}
			batch.Queue(insertValuationSQL,
				est.RunID, est.EntityID, est.Date, string(est.Model),
				nullable(est.FairValue), nullable(est.Upside), nullable(est.Points),
				est.Inputs)
			queued++
		}
	}
	for _, o := range run.Observations {
		batch.Queue(insertObservationSQL,
			run.RunID, o.EntityID, string(o.Metric), o.Value, o.Valid, o.Reason)
		queued++
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert run rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if _, err := tx.Exec(ctx, flipCurrentSQL, run.Date, run.RunID); err != nil {
		return fmt.Errorf("flip current run: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit publish: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"run_id": run.RunID,
		"scores": len(run.Scores),
	}).Info("Score run published")
	return nil
}

// nullable maps the unavailable arm to SQL NULL.
func nullable(m contracts.Metric) *float64 {
	if !m.Valid {
		return nil
	}
	return &m.Value
}

const latestScoreSQL = `
	SELECT s.run_id, s.entity_id, s.calc_date, s.score, s.rating,
	       s.factors, s.weights, s.regime, s.confidence, s.score_change,
	       s.sector_rank, s.sector_size, s.config_hash, s.computed_at
	FROM score_records s
	JOIN score_runs r ON r.run_id = s.run_id AND r.is_current
	WHERE s.entity_id = $1
	ORDER BY s.calc_date DESC
	LIMIT 1`

// LatestScore returns the entity's most recent published score.
func (r *Repository) LatestScore(ctx context.Context, entityID string) (*contracts.ScoreRecord, error) {
	row := r.db.Pool.QueryRow(ctx, latestScoreSQL, entityID)
	return scanScore(row)
}

const priorScoreSQL = `
	SELECT s.run_id, s.entity_id, s.calc_date, s.score, s.rating,
	       s.factors, s.weights, s.regime, s.confidence, s.score_change,
	       s.sector_rank, s.sector_size, s.config_hash, s.computed_at
	FROM score_records s
	JOIN score_runs r ON r.run_id = s.run_id AND r.is_current
	WHERE s.entity_id = $1 AND s.calc_date < $2
	ORDER BY s.calc_date DESC
	LIMIT 1`

// PriorScore returns the entity's most recent published score from a
// calculation date strictly before the given one.
func (r *Repository) PriorScore(ctx context.Context, entityID string, before time.Time) (*contracts.ScoreRecord, error) {
	row := r.db.Pool.QueryRow(ctx, priorScoreSQL, entityID, before)
	return scanScore(row)
}

const scoreHistorySQL = `
	SELECT s.run_id, s.entity_id, s.calc_date, s.score, s.rating,
	       s.factors, s.weights, s.regime, s.confidence, s.score_change,
	       s.sector_rank, s.sector_size, s.config_hash, s.computed_at
	FROM score_records s
	JOIN score_runs r ON r.run_id = s.run_id AND r.is_current
	WHERE s.entity_id = $1
	ORDER BY s.calc_date DESC
	LIMIT $2`

// ScoreHistory returns the entity's published scores, newest first.
func (r *Repository) ScoreHistory(ctx context.Context, entityID string, limit int) ([]*contracts.ScoreRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.Pool.Query(ctx, scoreHistorySQL, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

const sectorScoresSQL = `
	SELECT s.run_id, s.entity_id, s.calc_date, s.score, s.rating,
	       s.factors, s.weights, s.regime, s.confidence, s.score_change,
	       s.sector_rank, s.sector_size, s.config_hash, s.computed_at
	FROM score_records s
	JOIN score_runs r ON r.run_id = s.run_id AND r.is_current
	JOIN entities e ON e.entity_id = s.entity_id
	WHERE e.sector = $1 AND s.calc_date = $2
	ORDER BY s.sector_rank`

// SectorScores returns the published scores of one sector on a date,
// best first.
func (r *Repository) SectorScores(ctx context.Context, sector string, date time.Time) ([]*contracts.ScoreRecord, error) {
	rows, err := r.db.Pool.Query(ctx, sectorScoresSQL, sector, date)
	if err != nil {
		return nil, fmt.Errorf("query sector scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

const latestValuationsSQL = `
	SELECT v.entity_id, v.calc_date, v.run_id, v.model,
	       v.fair_value, v.upside, v.points
	FROM valuation_estimates v
	JOIN score_runs r ON r.run_id = v.run_id AND r.is_current
	WHERE v.entity_id = $1
	  AND v.calc_date = (
		SELECT MAX(v2.calc_date) FROM valuation_estimates v2
		JOIN score_runs r2 ON r2.run_id = v2.run_id AND r2.is_current
		WHERE v2.entity_id = $1)`

// LatestValuations returns the entity's most recent published model
// estimates.
func (r *Repository) LatestValuations(ctx context.Context, entityID string) (contracts.ValuationSet, error) {
	rows, err := r.db.Pool.Query(ctx, latestValuationsSQL, entityID)
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}
	defer rows.Close()

	set := make(contracts.ValuationSet)
	for rows.Next() {
		var est contracts.ValuationEstimate
		var model string
		var fairValue, upside, points *float64
		if err := rows.Scan(&est.EntityID, &est.Date, &est.RunID, &model,
			&fairValue, &upside, &points); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		est.Model = contracts.ValuationModel(model)
		est.FairValue = fromNullable(fairValue)
		est.Upside = fromNullable(upside)
		est.Points = fromNullable(points)
		set[est.Model] = est
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, contracts.ErrNotFound
	}
	return set, nil
}

func fromNullable(v *float64) contracts.Metric {
	if v == nil {
		return contracts.Unavailable("not persisted")
	}
	return contracts.MetricOf(*v)
}

func scanScore(row pgx.Row) (*contracts.ScoreRecord, error) {
	var rec contracts.ScoreRecord
	var rating, regimeName string
	var factorsJSON, weightsJSON, confJSON []byte
	err := row.Scan(&rec.RunID, &rec.EntityID, &rec.Date, &rec.Score, &rating,
		&factorsJSON, &weightsJSON, &regimeName, &confJSON, &rec.ScoreChange,
		&rec.SectorRank, &rec.SectorSize, &rec.ConfigHash, &rec.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan score record: %w", err)
	}
	rec.Rating = contracts.Rating(rating)
	rec.Regime = contracts.Regime(regimeName)
	if err := json.Unmarshal(factorsJSON, &rec.Factors); err != nil {
		return nil, fmt.Errorf("decode factors: %w", err)
	}
	if err := json.Unmarshal(weightsJSON, &rec.Weights); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	if err := json.Unmarshal(confJSON, &rec.Confidence); err != nil {
		return nil, fmt.Errorf("decode confidence: %w", err)
	}
	return &rec, nil
}

func scanScores(rows pgx.Rows) ([]*contracts.ScoreRecord, error) {
	var out []*contracts.ScoreRecord
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
