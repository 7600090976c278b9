package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/icscore/internal/contracts"
	"github.com/investorcenter/icscore/pkg/logger"
)

type fakeReader struct {
	scores     map[string]*contracts.ScoreRecord
	valuations map[string]contracts.ValuationSet
	sector     []*contracts.ScoreRecord
}

func (f *fakeReader) LatestScore(ctx context.Context, entityID string) (*contracts.ScoreRecord, error) {
	rec, ok := f.scores[entityID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return rec, nil
}

func (f *fakeReader) PriorScore(ctx context.Context, entityID string, before time.Time) (*contracts.ScoreRecord, error) {
	return nil, contracts.ErrNotFound
}

func (f *fakeReader) ScoreHistory(ctx context.Context, entityID string, limit int) ([]*contracts.ScoreRecord, error) {
	rec, ok := f.scores[entityID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return []*contracts.ScoreRecord{rec}, nil
}

func (f *fakeReader) SectorScores(ctx context.Context, sector string, date time.Time) ([]*contracts.ScoreRecord, error) {
	return f.sector, nil
}

func (f *fakeReader) LatestValuations(ctx context.Context, entityID string) (contracts.ValuationSet, error) {
	set, ok := f.valuations[entityID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return set, nil
}

func testRouter(reader contracts.ScoreReader) *mux.Router {
	h := NewScoreHandler(reader, nil, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/api/v1/scores/{entity}", h.GetScore).Methods("GET")
	r.HandleFunc("/api/v1/scores/{entity}/history", h.GetHistory).Methods("GET")
	r.HandleFunc("/api/v1/scores/{entity}/breakdown", h.GetBreakdown).Methods("GET")
	r.HandleFunc("/api/v1/valuations/{entity}", h.GetValuations).Methods("GET")
	r.HandleFunc("/api/v1/sectors/{sector}/scores", h.GetSectorScores).Methods("GET")
	return r
}

func sampleRecord(entityID string, score float64) *contracts.ScoreRecord {
	return &contracts.ScoreRecord{
		EntityID: entityID,
		Date:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		RunID:    "run-1",
		Score:    score,
		Rating:   contracts.RatingFor(score),
		Regime:   contracts.RegimeNeutral,
		Weights: contracts.ScoreWeights{
			contracts.FactorValue: 1.0,
		},
		SectorRank: 1,
		SectorSize: 2,
	}
}

func TestGetScoreReturnsLatest(t *testing.T) {
	reader := &fakeReader{
		scores: map[string]*contracts.ScoreRecord{
			"AAPL": sampleRecord("AAPL", 82.5),
		},
	}
	router := testRouter(reader)

	req := httptest.NewRequest("GET", "/api/v1/scores/AAPL", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["entity_id"])
	assert.Equal(t, 82.5, body["score"])
	assert.Equal(t, string(contracts.RatingBuy), body["rating"])
	assert.Equal(t, "2026-08-28", body["date"])
}

func TestGetScoreUnknownEntity(t *testing.T) {
	router := testRouter(&fakeReader{scores: map[string]*contracts.ScoreRecord{}})

	req := httptest.NewRequest("GET", "/api/v1/scores/NOPE", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetBreakdownIncludesWeights(t *testing.T) {
	reader := &fakeReader{
		scores: map[string]*contracts.ScoreRecord{
			"MSFT": sampleRecord("MSFT", 71.0),
		},
	}
	router := testRouter(reader)

	req := httptest.NewRequest("GET", "/api/v1/scores/MSFT/breakdown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var rec contracts.ScoreRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "MSFT", rec.EntityID)
	assert.InDelta(t, 1.0, rec.Weights.Sum(), 1e-9)
}

func TestGetHistory(t *testing.T) {
	reader := &fakeReader{
		scores: map[string]*contracts.ScoreRecord{
			"AAPL": sampleRecord("AAPL", 82.5),
		},
	}
	router := testRouter(reader)

	req := httptest.NewRequest("GET", "/api/v1/scores/AAPL/history?limit=5", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var records []*contracts.ScoreRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "AAPL", records[0].EntityID)
}

func TestGetValuations(t *testing.T) {
	reader := &fakeReader{
		valuations: map[string]contracts.ValuationSet{
			"AAPL": {
				contracts.ModelDCF: contracts.ValuationEstimate{
					EntityID:  "AAPL",
					Model:     contracts.ModelDCF,
					FairValue: contracts.MetricOf(210.0),
				},
			},
		},
	}
	router := testRouter(reader)

	req := httptest.NewRequest("GET", "/api/v1/valuations/AAPL", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var set map[string]contracts.ValuationEstimate
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &set))
	require.Contains(t, set, string(contracts.ModelDCF))
	assert.Equal(t, "AAPL", set[string(contracts.ModelDCF)].EntityID)
}

func TestGetSectorScoresBadDate(t *testing.T) {
	router := testRouter(&fakeReader{})

	req := httptest.NewRequest("GET", "/api/v1/sectors/Financials/scores?date=August", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSectorScores(t *testing.T) {
	reader := &fakeReader{
		sector: []*contracts.ScoreRecord{
			sampleRecord("JPM", 77.0),
			sampleRecord("BAC", 64.0),
		},
	}
	router := testRouter(reader)

	req := httptest.NewRequest("GET", "/api/v1/sectors/Financials/scores?date=2026-08-28", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var records []*contracts.ScoreRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "JPM", records[0].EntityID)
}

func TestHealthWithoutDatabase(t *testing.T) {
	router := testRouter(&fakeReader{})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
