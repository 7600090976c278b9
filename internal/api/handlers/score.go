package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/database"
	"github.com/investorcenter/icscore/pkg/logger"
)

// HealthChecker reports backing-store health for the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// ScoreHandler serves published scores, breakdowns and valuations.
type ScoreHandler struct {
	reader contracts.ScoreReader
	health HealthChecker
	logger *logger.Logger
}

// NewScoreHandler creates a score handler.
func NewScoreHandler(reader contracts.ScoreReader, health HealthChecker, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{reader: reader, health: health, logger: log}
}

// Health returns service and database status.
// GET /health
func (h *ScoreHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"service": "icscore-api",
	}
	code := http.StatusOK
	if h.health != nil {
		db, err := h.health.HealthCheck(r.Context())
		status["database"] = db
		if err != nil {
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}

// GetScore returns the entity's latest published score without the
// full factor breakdown.
// GET /api/v1/scores/{entity}
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["entity"]

	rec, err := h.reader.LatestScore(r.Context(), entityID)
	if err != nil {
		h.writeError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entity_id":    rec.EntityID,
		"date":         rec.Date.Format("2006-01-02"),
		"score":        rec.Score,
		"rating":       rec.Rating,
		"score_change": rec.ScoreChange,
		"sector_rank":  rec.SectorRank,
		"sector_size":  rec.SectorSize,
		"regime":       rec.Regime,
		"confidence":   rec.Confidence,
	})
}

// GetBreakdown returns the full record including per-metric factor
// detail and the weights used.
// GET /api/v1/scores/{entity}/breakdown
func (h *ScoreHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["entity"]

	rec, err := h.reader.LatestScore(r.Context(), entityID)
	if err != nil {
		h.writeError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetHistory returns recent published scores, newest first.
// GET /api/v1/scores/{entity}/history?limit=30
func (h *ScoreHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["entity"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.reader.ScoreHistory(r.Context(), entityID, limit)
	if err != nil {
		h.writeError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetValuations returns the entity's latest model estimates.
// GET /api/v1/valuations/{entity}
func (h *ScoreHandler) GetValuations(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["entity"]

	set, err := h.reader.LatestValuations(r.Context(), entityID)
	if err != nil {
		h.writeError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// GetSectorScores returns a sector's published scores for a date,
// best first.
// GET /api/v1/sectors/{sector}/scores?date=2026-08-28
func (h *ScoreHandler) GetSectorScores(w http.ResponseWriter, r *http.Request) {
	sector := mux.Vars(r)["sector"]

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "date must be YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	records, err := h.reader.SectorScores(r.Context(), sector, date)
	if err != nil {
		h.writeError(w, sector, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *ScoreHandler) writeError(w http.ResponseWriter, subject string, err error) {
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no published score for " + subject,
		})
		return
	}
	h.logger.WithError(err).Error("Score query failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
