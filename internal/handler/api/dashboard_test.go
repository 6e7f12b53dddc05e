package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcPulse/internal/domain/models"
	svccache "BtcPulse/internal/service/cache"
	"BtcPulse/pkg/logger"
)

type handlerFixture struct {
	echo    *echo.Echo
	cache   *svccache.SnapshotCache
	history *svccache.HistoryRing
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	cache := svccache.NewSnapshotCache()
	history := svccache.NewHistoryRing(50)

	e := echo.New()
	NewDashboardHandler(log, cache, history).RegisterRoutes(e)
	return &handlerFixture{echo: e, cache: cache, history: history}
}

func (f *handlerFixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *handlerFixture) publish() *models.CacheState {
	price := 0.47
	state := &models.CacheState{
		Verdict: models.Verdict{
			Direction:  models.DirectionUp,
			Confidence: 0.42,
			UpCount:    3,
			DownCount:  1,
			Signals: []models.SubSignal{
				{Source: "funding", Vote: models.VoteBullish, Strength: 0.6, Weight: 1.5},
			},
			Timestamp: time.Now().UTC(),
		},
		Snapshots: models.FetchSet{
			Market: &models.MarketSnapshot{Price: 64000},
			News:   &models.NewsSummary{Overall: models.VoteBullish, AvgScore: 0.2},
			Prediction: &models.PredictionContext{
				Question: "Bitcoin Up or Down",
				Outcomes: []models.PredictionOutcome{{Outcome: "Up", Price: &price}},
			},
			Outcomes: map[string]models.SourceOutcome{
				models.SourceMarket:      {Source: models.SourceMarket, FetchedAt: time.Now()},
				models.SourceDerivatives: {Source: models.SourceDerivatives, Failure: "timeout"},
			},
		},
		BTCPrice:    64123.4,
		Odds:        models.OddsValue{HasValue: true, SharePrice: 0.47, PotentialPayout: 2.13},
		GeneratedAt: time.Now().UTC(),
	}
	f.cache.Publish(state)
	return state
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	return data
}

func TestDataEndpointsUnavailableBeforeFirstCycle(t *testing.T) {
	f := newHandlerFixture(t)

	for _, path := range []string{
		"/api/dashboard-data",
		"/api/signal",
		"/api/news",
		"/api/derivatives",
		"/api/polymarket",
		"/api/bet-suggestion",
	} {
		rec := f.get(path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "path %s", path)
	}
}

func TestDashboardData(t *testing.T) {
	f := newHandlerFixture(t)
	f.publish()

	rec := f.get("/api/dashboard-data")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Contains(t, data, "data")
	require.Contains(t, data, "cache_age_seconds")

	inner := data["data"].(map[string]interface{})
	verdict := inner["final_signal"].(map[string]interface{})
	assert.Equal(t, "UP", verdict["direction"])
	assert.Equal(t, 64123.4, inner["btc_price"])
}

func TestSignalEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	f.publish()

	rec := f.get("/api/signal")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, 64123.4, data["btc_price"])
	verdict := data["final_signal"].(map[string]interface{})
	assert.Equal(t, "UP", verdict["direction"])
	odds := data["odds_value"].(map[string]interface{})
	assert.Equal(t, true, odds["has_value"])
	signals := data["signals"].([]interface{})
	require.Len(t, signals, 1)
}

func TestBetSuggestionEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	f.publish()

	rec := f.get("/api/bet-suggestion")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, float64(3), data["up_attributes_count"])
	assert.Equal(t, float64(1), data["down_attributes_count"])
	line := data["polymarket_line"].(map[string]interface{})
	assert.Equal(t, "Bitcoin Up or Down", line["question"])
}

func TestSignalHistoryEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("empty before any cycle", func(t *testing.T) {
		rec := f.get("/api/signal-history")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(0), data["count"])
	})

	for i := 0; i < 10; i++ {
		f.history.Append(models.HistoryEntry{
			Verdict:  models.Verdict{Direction: models.DirectionSkip},
			BTCPrice: float64(64000 + i),
		})
	}

	t.Run("default limit returns everything retained", func(t *testing.T) {
		rec := f.get("/api/signal-history")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(10), data["count"])

		history := data["history"].([]interface{})
		first := history[0].(map[string]interface{})
		assert.Equal(t, float64(64009), first["btc_price"])
	})

	t.Run("explicit limit truncates", func(t *testing.T) {
		rec := f.get("/api/signal-history?limit=3")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, float64(3), data["count"])
	})

	t.Run("limit above the maximum is rejected", func(t *testing.T) {
		rec := f.get("/api/signal-history?limit=500")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("ok before first cycle", func(t *testing.T) {
		rec := f.get("/api/health")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, "ok", data["status"])
		assert.NotContains(t, data, "last_refresh")
	})

	t.Run("reports source health after a cycle", func(t *testing.T) {
		f.publish()
		rec := f.get("/api/health")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		sources := data["sources"].(map[string]interface{})
		assert.Equal(t, true, sources[models.SourceMarket])
		assert.Equal(t, false, sources[models.SourceDerivatives])
	})
}

func TestNewsAndDerivativesEndpoints(t *testing.T) {
	f := newHandlerFixture(t)
	f.publish()

	rec := f.get("/api/news")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "bullish", data["overall_sentiment"])

	// Derivatives failed this cycle; the endpoint reports the absence
	// rather than erroring.
	rec = f.get("/api/derivatives")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":null`)
}
