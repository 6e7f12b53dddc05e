package repository

import (
	"context"

	"BtcPulse/internal/domain/models"
)

// Source clients. Each is called exactly once per refresh cycle with a
// bounded context; the coordinator owns retry policy (currently none).

type MarketSource interface {
	FetchMarket(ctx context.Context) (*models.MarketSnapshot, error)
}

type DerivativesSource interface {
	FetchDerivatives(ctx context.Context) (*models.DerivativesSnapshot, error)
}

type NewsSource interface {
	FetchNews(ctx context.Context) (*models.NewsSummary, error)
}

type PredictionSource interface {
	FetchPrediction(ctx context.Context) (*models.PredictionContext, error)
}

// PriceStream is an optional live spot-price feed. The coordinator prefers
// the stream price at publish time and falls back to the market snapshot.
type PriceStream interface {
	Connect(ctx context.Context) error
	Start(ctx context.Context)
	LastPrice() (float64, bool)
	IsConnected() bool
	Close() error
}

type Metrics interface {
	RecordCycleDuration(seconds float64)
	RecordSourceError(source string)
	RecordLastPrice(price float64)
	RecordVerdict(direction string, confidence float64)
	RecordSignalsAvailable(n int)
}
