package models

import "time"

// Source names; also used as keys in FetchSet.Outcomes and as metric labels.
const (
	SourceMarket      = "market"
	SourceDerivatives = "derivatives"
	SourceNews        = "news"
	SourcePrediction  = "prediction"
)

// SourceOutcome is the tagged result of one client fetch attempt.
// Failure is empty on success.
type SourceOutcome struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Failure   string    `json:"failure,omitempty"`
}

// OK reports whether the fetch succeeded.
func (o SourceOutcome) OK() bool { return o.Failure == "" }

// WallStrength aggregates order-book volume within a fixed band of the mid price.
type WallStrength struct {
	BidWallVolume float64 `json:"bid_wall_volume"`
	AskWallVolume float64 `json:"ask_wall_volume"`
	WallRatio     float64 `json:"wall_ratio"`
	MidPrice      float64 `json:"mid_price"`
}

// MarketSnapshot holds spot price and order-book wall data for one cycle.
type MarketSnapshot struct {
	Price float64       `json:"price"`
	Walls *WallStrength `json:"walls,omitempty"`
}

// FundingPoint is one historical funding settlement.
type FundingPoint struct {
	Rate float64   `json:"rate"`
	Time time.Time `json:"time"`
}

// FundingData holds the current perpetual funding rate plus recent settlements.
type FundingData struct {
	CurrentRate     float64        `json:"current_rate"`
	NextFundingTime time.Time      `json:"next_funding_time"`
	RecentRates     []FundingPoint `json:"recent_rates,omitempty"`
}

// OpenInterestData holds current open interest for the perpetual.
type OpenInterestData struct {
	Contracts float64   `json:"oi_contracts"`
	BTC       float64   `json:"oi_btc"`
	Timestamp time.Time `json:"timestamp"`
}

// LongShortPoint is one hourly long/short ratio observation.
type LongShortPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Ratio     float64   `json:"ratio"`
}

// LongShortData holds the current long/short account ratio and a short history.
type LongShortData struct {
	CurrentRatio float64          `json:"current_ratio"`
	History      []LongShortPoint `json:"history,omitempty"`
}

// LiquidationEvent is a single filled liquidation order.
type LiquidationEvent struct {
	Side     string    `json:"side"`
	Price    float64   `json:"price"`
	SizeBTC  float64   `json:"size_btc"`
	ValueUSD float64   `json:"value_usd"`
	Time     time.Time `json:"time"`
}

// LiquidationData aggregates recent liquidations by side.
type LiquidationData struct {
	LongUSD      float64            `json:"long_liquidation_usd"`
	ShortUSD     float64            `json:"short_liquidation_usd"`
	LongCount    int                `json:"long_count"`
	ShortCount   int                `json:"short_count"`
	TotalUSD     float64            `json:"total_usd"`
	RecentEvents []LiquidationEvent `json:"recent_events,omitempty"`
}

// DerivativesSnapshot bundles the derivatives-venue data for one cycle.
// Each part is fetched from its own endpoint and fails independently; a nil
// part means that endpoint failed and the matching signal is absent, not
// neutral.
type DerivativesSnapshot struct {
	Funding      *FundingData      `json:"funding,omitempty"`
	OpenInterest *OpenInterestData `json:"open_interest,omitempty"`
	LongShort    *LongShortData    `json:"long_short_ratio,omitempty"`
	Liquidations *LiquidationData  `json:"liquidations,omitempty"`
}

// Empty reports whether every endpoint failed.
func (d *DerivativesSnapshot) Empty() bool {
	return d == nil || (d.Funding == nil && d.OpenInterest == nil && d.LongShort == nil && d.Liquidations == nil)
}

// HeadlineSentiment is the scored sentiment of one headline.
type HeadlineSentiment struct {
	Score       float64 `json:"score"`
	Label       Vote    `json:"label"`
	BullishHits int     `json:"bullish_keywords"`
	BearishHits int     `json:"bearish_keywords"`
}

// Headline is one news item with its sentiment.
type Headline struct {
	Title       string            `json:"title"`
	Source      string            `json:"source"`
	PublishedAt time.Time         `json:"published_at"`
	URL         string            `json:"url"`
	Sentiment   HeadlineSentiment `json:"sentiment"`
}

// NewsSummary aggregates headline sentiment for one cycle.
type NewsSummary struct {
	Overall      Vote       `json:"overall_sentiment"`
	AvgScore     float64    `json:"avg_score"`
	BullishCount int        `json:"bullish_count"`
	BearishCount int        `json:"bearish_count"`
	NeutralCount int        `json:"neutral_count"`
	Headlines    []Headline `json:"headlines,omitempty"`
}

// PredictionOutcome is one tradable outcome of a prediction market.
type PredictionOutcome struct {
	Outcome string   `json:"outcome"`
	TokenID string   `json:"token_id"`
	Price   *float64 `json:"price,omitempty"`
}

// PredictionContext is the best-matching active prediction market.
type PredictionContext struct {
	Question string              `json:"question"`
	Slug     string              `json:"slug"`
	EndDate  time.Time           `json:"end_date"`
	Outcomes []PredictionOutcome `json:"outcomes"`
}

// OutcomePrice returns the share price for the named outcome, if present.
func (p *PredictionContext) OutcomePrice(outcome string) *float64 {
	if p == nil {
		return nil
	}
	for _, o := range p.Outcomes {
		if o.Outcome == outcome {
			return o.Price
		}
	}
	return nil
}

// FetchSet is everything one refresh cycle pulled from the outside world.
// Payload pointers are nil for failed sources; Outcomes records the per-source
// result either way.
type FetchSet struct {
	Market      *MarketSnapshot          `json:"market,omitempty"`
	Derivatives *DerivativesSnapshot     `json:"derivatives,omitempty"`
	News        *NewsSummary             `json:"news,omitempty"`
	Prediction  *PredictionContext       `json:"prediction,omitempty"`
	Outcomes    map[string]SourceOutcome `json:"outcomes"`
}
