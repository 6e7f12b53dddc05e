package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"BtcPulse/internal/domain/models"
	domrepo "BtcPulse/internal/domain/repository"
	svccache "BtcPulse/internal/service/cache"
	"BtcPulse/internal/services/signals"
	"BtcPulse/pkg/logger"
)

// ErrCycleInFlight is returned when a refresh is requested while the previous
// one is still running. The in-flight cycle is never cancelled or doubled up.
var ErrCycleInFlight = fmt.Errorf("refresh cycle already in flight")

// RefreshCoordinator runs one full refresh cycle: fan out to all sources,
// evaluate, decide, publish. One coordinator is the single writer for the
// snapshot cache and history ring.
type RefreshCoordinator struct {
	market     domrepo.MarketSource
	deriv      domrepo.DerivativesSource
	news       domrepo.NewsSource
	prediction domrepo.PredictionSource
	stream     domrepo.PriceStream // optional, may be nil

	engine  *signals.Engine
	cache   *svccache.SnapshotCache
	history *svccache.HistoryRing
	metrics domrepo.Metrics
	log     *logger.Logger

	sourceTimeout time.Duration
	inFlight      atomic.Bool
	now           func() time.Time
}

func NewRefreshCoordinator(
	market domrepo.MarketSource,
	deriv domrepo.DerivativesSource,
	news domrepo.NewsSource,
	prediction domrepo.PredictionSource,
	stream domrepo.PriceStream,
	engine *signals.Engine,
	cache *svccache.SnapshotCache,
	history *svccache.HistoryRing,
	metrics domrepo.Metrics,
	log *logger.Logger,
	sourceTimeout time.Duration,
) *RefreshCoordinator {
	return &RefreshCoordinator{
		market:        market,
		deriv:         deriv,
		news:          news,
		prediction:    prediction,
		stream:        stream,
		engine:        engine,
		cache:         cache,
		history:       history,
		metrics:       metrics,
		log:           log.With(logger.String("component", "refresh")),
		sourceTimeout: sourceTimeout,
		now:           time.Now,
	}
}

// RunCycle executes one refresh cycle and publishes the result. Overlapping
// calls are rejected, not queued; the scheduler simply tries again next tick.
func (rc *RefreshCoordinator) RunCycle(ctx context.Context) (*models.CacheState, error) {
	if !rc.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCycleInFlight
	}
	defer rc.inFlight.Store(false)

	started := rc.now()
	set := rc.fetchAll(ctx)

	subs := rc.engine.Evaluate(set)
	verdict := rc.engine.Decide(subs, rc.now())
	odds := rc.engine.CheckOdds(set.Prediction, verdict.Direction)

	state := &models.CacheState{
		Verdict:     verdict,
		Snapshots:   set,
		BTCPrice:    rc.resolvePrice(set),
		Odds:        odds,
		GeneratedAt: rc.now(),
	}

	rc.cache.Publish(state)
	rc.history.Append(models.HistoryEntry{Verdict: verdict, BTCPrice: state.BTCPrice})

	elapsed := rc.now().Sub(started)
	rc.metrics.RecordCycleDuration(elapsed.Seconds())
	rc.metrics.RecordVerdict(string(verdict.Direction), verdict.Confidence)
	rc.metrics.RecordSignalsAvailable(len(verdict.Signals))
	if state.BTCPrice > 0 {
		rc.metrics.RecordLastPrice(state.BTCPrice)
	}

	rc.log.Info("cycle complete",
		logger.String("direction", string(verdict.Direction)),
		logger.Float64("confidence", verdict.Confidence),
		logger.Float64("btc_price", state.BTCPrice),
		logger.Int("signals", len(verdict.Signals)),
		logger.Duration("elapsed", elapsed))
	return state, nil
}

// fetchAll pulls from every source concurrently, each under its own timeout.
// A failed source contributes a nil payload and a tagged outcome; the cycle
// itself never fails on fetch errors.
func (rc *RefreshCoordinator) fetchAll(ctx context.Context) models.FetchSet {
	set := models.FetchSet{Outcomes: make(map[string]models.SourceOutcome, 4)}

	type item struct {
		source  string
		payload interface{}
		err     error
	}
	ch := make(chan item, 4)
	var wg sync.WaitGroup

	fetch := func(source string, fn func(context.Context) (interface{}, error)) {
		defer wg.Done()
		fctx, cancel := context.WithTimeout(ctx, rc.sourceTimeout)
		defer cancel()
		v, err := fn(fctx)
		ch <- item{source, v, err}
	}

	wg.Add(4)
	go fetch(models.SourceMarket, func(c context.Context) (interface{}, error) {
		return rc.market.FetchMarket(c)
	})
	go fetch(models.SourceDerivatives, func(c context.Context) (interface{}, error) {
		return rc.deriv.FetchDerivatives(c)
	})
	go fetch(models.SourceNews, func(c context.Context) (interface{}, error) {
		return rc.news.FetchNews(c)
	})
	go fetch(models.SourcePrediction, func(c context.Context) (interface{}, error) {
		return rc.prediction.FetchPrediction(c)
	})

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		outcome := models.SourceOutcome{Source: it.source, FetchedAt: rc.now()}
		if it.err != nil {
			outcome.Failure = it.err.Error()
			rc.metrics.RecordSourceError(it.source)
			rc.log.Warn("source fetch failed",
				logger.String("source", it.source),
				logger.Error(it.err))
			set.Outcomes[it.source] = outcome
			continue
		}
		switch it.source {
		case models.SourceMarket:
			set.Market = it.payload.(*models.MarketSnapshot)
		case models.SourceDerivatives:
			set.Derivatives = it.payload.(*models.DerivativesSnapshot)
		case models.SourceNews:
			set.News = it.payload.(*models.NewsSummary)
		case models.SourcePrediction:
			set.Prediction = it.payload.(*models.PredictionContext)
		}
		set.Outcomes[it.source] = outcome
	}

	return set
}

// resolvePrice prefers the live stream price and falls back to the exchange
// snapshot from this cycle.
func (rc *RefreshCoordinator) resolvePrice(set models.FetchSet) float64 {
	if rc.stream != nil && rc.stream.IsConnected() {
		if p, ok := rc.stream.LastPrice(); ok {
			return p
		}
	}
	if set.Market != nil {
		return set.Market.Price
	}
	return 0
}
