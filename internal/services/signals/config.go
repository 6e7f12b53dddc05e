package signals

import "fmt"

// Signal source names as they appear in verdicts and API payloads.
const (
	SignalFunding      = "funding"
	SignalLiquidations = "liquidations"
	SignalOrderBook    = "order_book"
	SignalLongShort    = "long_short_ratio"
	SignalNews         = "news"
)

// Weights are the fixed per-signal vote weights. Funding and liquidations are
// primary, order book secondary, long/short and news confirming.
type Weights struct {
	Funding      float64
	Liquidations float64
	OrderBook    float64
	LongShort    float64
	News         float64
}

// Config holds all engine tunables. It is passed in at construction; the
// engine keeps no other state, so two engines with different thresholds are
// directly comparable.
type Config struct {
	Weights       Weights
	UpThreshold   float64
	DownThreshold float64

	// Evaluator neutral bands.
	FundingHigh   float64 // per-8h rate above which longs are crowded
	FundingLow    float64 // per-8h rate below which shorts are crowded
	LiqDominance  float64 // one side X times the other is dominant
	WallBidStrong float64 // bid/ask ratio above which bids dominate
	WallAskStrong float64 // bid/ask ratio below which asks dominate
	LongShortHigh float64
	LongShortLow  float64
	NewsBand      float64

	// Prediction-market odds value cutoff.
	MaxSharePrice float64
}

// DefaultConfig returns the calibration the engine ships with.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Funding:      1.5,
			Liquidations: 1.5,
			OrderBook:    1.0,
			LongShort:    0.5,
			News:         0.5,
		},
		UpThreshold:   0.3,
		DownThreshold: 0.3,
		FundingHigh:   0.0001,
		FundingLow:    -0.0001,
		LiqDominance:  1.5,
		WallBidStrong: 1.3,
		WallAskStrong: 0.77,
		LongShortHigh: 2.5,
		LongShortLow:  0.7,
		NewsBand:      0.1,
		MaxSharePrice: 0.55,
	}
}

// Validate checks threshold and weight ranges.
func (c Config) Validate() error {
	if c.UpThreshold <= 0 || c.UpThreshold > 1 {
		return fmt.Errorf("up threshold must be in (0,1], got %v", c.UpThreshold)
	}
	if c.DownThreshold <= 0 || c.DownThreshold > 1 {
		return fmt.Errorf("down threshold must be in (0,1], got %v", c.DownThreshold)
	}
	if c.FundingHigh <= 0 || c.FundingLow >= 0 {
		return fmt.Errorf("funding bands must straddle zero, got [%v, %v]", c.FundingLow, c.FundingHigh)
	}
	if c.LiqDominance <= 1 {
		return fmt.Errorf("liquidation dominance ratio must exceed 1, got %v", c.LiqDominance)
	}
	if c.WallAskStrong >= c.WallBidStrong {
		return fmt.Errorf("wall bands inverted: ask_strong %v >= bid_strong %v", c.WallAskStrong, c.WallBidStrong)
	}
	if c.LongShortLow >= c.LongShortHigh {
		return fmt.Errorf("long/short bands inverted: low %v >= high %v", c.LongShortLow, c.LongShortHigh)
	}
	if c.NewsBand <= 0 || c.NewsBand >= 1 {
		return fmt.Errorf("news band must be in (0,1), got %v", c.NewsBand)
	}
	for name, w := range map[string]float64{
		SignalFunding:      c.Weights.Funding,
		SignalLiquidations: c.Weights.Liquidations,
		SignalOrderBook:    c.Weights.OrderBook,
		SignalLongShort:    c.Weights.LongShort,
		SignalNews:         c.Weights.News,
	} {
		if w <= 0 {
			return fmt.Errorf("weight for %s must be positive, got %v", name, w)
		}
	}
	return nil
}
