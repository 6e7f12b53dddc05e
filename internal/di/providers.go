package di

import (
	"fmt"

	"BtcPulse/internal/domain/repository"
	"BtcPulse/internal/handler/api"
	"BtcPulse/internal/scheduler"
	"BtcPulse/internal/service/binance"
	svccache "BtcPulse/internal/service/cache"
	"BtcPulse/internal/service/cryptocompare"
	"BtcPulse/internal/service/kraken"
	"BtcPulse/internal/service/okx"
	"BtcPulse/internal/service/polymarket"
	"BtcPulse/internal/service/ratelimit"
	"BtcPulse/internal/services/signals"
	"BtcPulse/internal/usecase"
	"BtcPulse/pkg/config"
	xhttp "BtcPulse/pkg/http"
	applogger "BtcPulse/pkg/logger"
	"BtcPulse/pkg/metrics"
	"BtcPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Refresh.SourceTimeout))
}

// ProvideRateLimiter creates the shared token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketSource creates the Kraken spot client.
func ProvideMarketSource(httpc *xhttp.Client, l *applogger.Logger, cfg *config.Config) repository.MarketSource {
	k := cfg.Sources.Kraken
	return kraken.New(httpc, l, k.BaseURL, k.Pair, k.Depth, k.WallRange)
}

// ProvideDerivativesSource creates the OKX perpetuals client.
func ProvideDerivativesSource(httpc *xhttp.Client, limiter *ratelimit.Limiter, l *applogger.Logger, cfg *config.Config) repository.DerivativesSource {
	o := cfg.Sources.OKX
	return okx.New(httpc, limiter, l, o.BaseURL, o.InstID, o.Currency, o.RateCapacity, o.RateRefill)
}

// ProvideNewsSource creates the CryptoCompare news client.
func ProvideNewsSource(httpc *xhttp.Client, l *applogger.Logger, cfg *config.Config) repository.NewsSource {
	n := cfg.Sources.CryptoCompare
	return cryptocompare.New(httpc, l, n.BaseURL, n.Category, n.Limit)
}

// ProvidePredictionSource creates the Polymarket client.
func ProvidePredictionSource(httpc *xhttp.Client, l *applogger.Logger, cfg *config.Config) repository.PredictionSource {
	p := cfg.Sources.Polymarket
	return polymarket.New(httpc, l, p.BaseURL, p.TagSlug, p.Limit)
}

// ProvidePriceStream creates the Binance trade stream, or nil when disabled.
func ProvidePriceStream(l *applogger.Logger, cfg *config.Config) repository.PriceStream {
	b := cfg.Sources.Binance
	if !b.Enabled {
		return nil
	}
	return binance.New(l, b.WebSocketURL, b.ReconnectDelay, b.PingInterval)
}

// ProvideEngine creates the decision engine from config thresholds.
func ProvideEngine(cfg *config.Config) (*signals.Engine, error) {
	e := cfg.Engine
	return signals.NewEngine(signals.Config{
		Weights: signals.Weights{
			Funding:      e.Weights.Funding,
			Liquidations: e.Weights.Liquidations,
			OrderBook:    e.Weights.OrderBook,
			LongShort:    e.Weights.LongShort,
			News:         e.Weights.News,
		},
		UpThreshold:   e.UpThreshold,
		DownThreshold: e.DownThreshold,
		FundingHigh:   e.FundingHigh,
		FundingLow:    e.FundingLow,
		LiqDominance:  e.LiqDominance,
		WallBidStrong: e.WallBidStrong,
		WallAskStrong: e.WallAskStrong,
		LongShortHigh: e.LongShortHigh,
		LongShortLow:  e.LongShortLow,
		NewsBand:      e.NewsBand,
		MaxSharePrice: e.MaxSharePrice,
	})
}

// ProvideSnapshotCache creates the single published-state cache.
func ProvideSnapshotCache() *svccache.SnapshotCache {
	return svccache.NewSnapshotCache()
}

// ProvideHistoryRing creates the verdict history ring.
func ProvideHistoryRing(cfg *config.Config) *svccache.HistoryRing {
	return svccache.NewHistoryRing(cfg.Refresh.HistorySize)
}

// ProvideRefreshCoordinator creates the refresh use case.
func ProvideRefreshCoordinator(
	market repository.MarketSource,
	deriv repository.DerivativesSource,
	news repository.NewsSource,
	prediction repository.PredictionSource,
	stream repository.PriceStream,
	engine *signals.Engine,
	cache *svccache.SnapshotCache,
	history *svccache.HistoryRing,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.RefreshCoordinator {
	return usecase.NewRefreshCoordinator(market, deriv, news, prediction, stream,
		engine, cache, history, m, l, cfg.Refresh.SourceTimeout)
}

// ProvideScheduler creates the refresh scheduler.
func ProvideScheduler(coord *usecase.RefreshCoordinator, l *applogger.Logger, cfg *config.Config) *scheduler.Scheduler {
	return scheduler.New(coord, l, cfg.Refresh.Interval)
}

// ProvideHandler creates the HTTP read API handler.
func ProvideHandler(l *applogger.Logger, cache *svccache.SnapshotCache, history *svccache.HistoryRing) xhttp.Handler {
	return api.NewDashboardHandler(l, cache, history)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	stream repository.PriceStream,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, stream, sched, handler)
}
