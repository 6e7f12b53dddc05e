package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"BtcPulse/internal/domain/models"
	svccache "BtcPulse/internal/service/cache"
	xhttp "BtcPulse/pkg/http"
	xlogger "BtcPulse/pkg/logger"
)

// DashboardHandler serves the read API. All endpoints read from the snapshot
// cache; nothing here triggers a fetch. Until the first refresh cycle
// completes, data endpoints answer 503.
type DashboardHandler struct {
	logger  *xlogger.Logger
	cache   *svccache.SnapshotCache
	history *svccache.HistoryRing
	started time.Time
}

func NewDashboardHandler(logger *xlogger.Logger, cache *svccache.SnapshotCache, history *svccache.HistoryRing) *DashboardHandler {
	return &DashboardHandler{
		logger:  logger,
		cache:   cache,
		history: history,
		started: time.Now(),
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard-data", h.DashboardData)
	g.GET("/signal", h.Signal)
	g.GET("/news", h.News)
	g.GET("/derivatives", h.Derivatives)
	g.GET("/polymarket", h.Polymarket)
	g.GET("/signal-history", h.SignalHistory)
	g.GET("/bet-suggestion", h.BetSuggestion)
	g.GET("/health", h.Health)
}

const notReadyMessage = "data not yet available, first refresh pending"

type dashboardResponse struct {
	Data            *models.CacheState `json:"data"`
	CacheAgeSeconds float64            `json:"cache_age_seconds"`
}

// DashboardData returns the full cached state including all signals and data.
func (h *DashboardHandler) DashboardData(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, dashboardResponse{
		Data:            state,
		CacheAgeSeconds: cacheAge(state),
	})
}

type signalResponse struct {
	BTCPrice float64            `json:"btc_price"`
	Verdict  models.Verdict     `json:"final_signal"`
	Odds     models.OddsValue   `json:"odds_value"`
	Signals  []models.SubSignal `json:"signals"`
}

// Signal returns just the current recommendation.
func (h *DashboardHandler) Signal(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, signalResponse{
		BTCPrice: state.BTCPrice,
		Verdict:  state.Verdict,
		Odds:     state.Odds,
		Signals:  state.Verdict.Signals,
	})
}

// News returns the latest headlines and their sentiment.
func (h *DashboardHandler) News(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, state.Snapshots.News)
}

// Derivatives returns funding, open interest, long/short ratio and
// liquidations from the last cycle.
func (h *DashboardHandler) Derivatives(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, state.Snapshots.Derivatives)
}

// Polymarket returns the current prediction-market context.
func (h *DashboardHandler) Polymarket(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, state.Snapshots.Prediction)
}

type historyResponse struct {
	History []models.HistoryEntry `json:"history"`
	Count   int                   `json:"count"`
}

// SignalHistory returns recent verdicts, most recent first. Unlike the data
// endpoints it answers an empty list before the first cycle.
func (h *DashboardHandler) SignalHistory(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries := h.history.Snapshot(req.Limit)
	return xhttp.SuccessResponse(c, historyResponse{
		History: entries,
		Count:   len(entries),
	})
}

type betSuggestionResponse struct {
	Verdict        models.Verdict            `json:"final_signal"`
	Odds           models.OddsValue          `json:"odds_value"`
	UpAttributes   int                       `json:"up_attributes_count"`
	DownAttributes int                       `json:"down_attributes_count"`
	PolymarketLine *models.PredictionContext `json:"polymarket_line"`
	Timestamp      time.Time                 `json:"timestamp"`
}

// BetSuggestion combines the verdict with the prediction-market line and the
// per-signal vote counts.
func (h *DashboardHandler) BetSuggestion(c echo.Context) error {
	state, ok := h.cache.Get()
	if !ok {
		return xhttp.UnavailableResponse(c, notReadyMessage)
	}
	return xhttp.SuccessResponse(c, betSuggestionResponse{
		Verdict:        state.Verdict,
		Odds:           state.Odds,
		UpAttributes:   state.Verdict.UpCount,
		DownAttributes: state.Verdict.DownCount,
		PolymarketLine: state.Snapshots.Prediction,
		Timestamp:      state.GeneratedAt,
	})
}

type healthResponse struct {
	Status          string         `json:"status"`
	UptimeSeconds   float64        `json:"uptime_seconds"`
	LastRefresh     *time.Time     `json:"last_refresh,omitempty"`
	CacheAgeSeconds *float64       `json:"cache_age_seconds,omitempty"`
	Sources         map[string]bool `json:"sources,omitempty"`
}

// Health always answers 200; readiness of the data plane shows up in the
// cache fields.
func (h *DashboardHandler) Health(c echo.Context) error {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.started).Seconds(),
	}
	if state, ok := h.cache.Get(); ok {
		t := state.GeneratedAt
		age := cacheAge(state)
		resp.LastRefresh = &t
		resp.CacheAgeSeconds = &age
		resp.Sources = make(map[string]bool, len(state.Snapshots.Outcomes))
		for name, outcome := range state.Snapshots.Outcomes {
			resp.Sources[name] = outcome.OK()
		}
	}
	return xhttp.SuccessResponse(c, resp)
}

func cacheAge(state *models.CacheState) float64 {
	return float64(int(time.Since(state.GeneratedAt).Seconds()*10)) / 10
}
