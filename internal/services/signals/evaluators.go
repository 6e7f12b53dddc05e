package signals

import (
	"fmt"
	"math"

	"BtcPulse/internal/domain/models"
)

// Evaluators are pure: one typed payload in, one sub-signal out. A nil
// payload means the source failed this cycle and yields a nil sub-signal,
// which carries no weight. A payload inside its neutral band yields a
// NEUTRAL vote with strength 0, which still counts toward available weight.

// EvaluateFunding votes on the perpetual funding rate. High positive funding
// means longs are crowded (bearish); high negative means shorts are crowded
// (bullish).
func (e *Engine) EvaluateFunding(f *models.FundingData) *models.SubSignal {
	if f == nil {
		return nil
	}

	rate := f.CurrentRate
	sig := &models.SubSignal{Source: SignalFunding, Weight: e.cfg.Weights.Funding}

	switch {
	case rate >= e.cfg.FundingHigh:
		sig.Vote = models.VoteBearish
		sig.Strength = math.Min(1, rate/(e.cfg.FundingHigh*3))
		sig.Detail = fmt.Sprintf("Funding %.4f%% - longs crowded, risk of pullback", rate*100)
	case rate <= e.cfg.FundingLow:
		sig.Vote = models.VoteBullish
		sig.Strength = math.Min(1, math.Abs(rate)/(math.Abs(e.cfg.FundingLow)*3))
		sig.Detail = fmt.Sprintf("Funding %.4f%% - shorts crowded, risk of squeeze up", rate*100)
	default:
		sig.Vote = models.VoteNeutral
		sig.Detail = fmt.Sprintf("Funding %.4f%% - within normal range", rate*100)
	}

	return sig
}

// EvaluateLiquidations votes on recent liquidation skew. A flushed side means
// that side's pressure is exhausted: dominant long liquidations are bullish
// (selling done), dominant short liquidations bearish (squeeze fuel spent).
func (e *Engine) EvaluateLiquidations(l *models.LiquidationData) *models.SubSignal {
	if l == nil {
		return nil
	}

	sig := &models.SubSignal{Source: SignalLiquidations, Weight: e.cfg.Weights.Liquidations}

	if l.TotalUSD == 0 {
		sig.Vote = models.VoteNeutral
		sig.Detail = "No recent liquidations"
		return sig
	}

	switch {
	case l.ShortUSD > 0 && l.LongUSD/l.ShortUSD >= e.cfg.LiqDominance:
		ratio := l.LongUSD / l.ShortUSD
		sig.Vote = models.VoteBullish
		sig.Strength = math.Min(1, (ratio-1)/3)
		sig.Detail = fmt.Sprintf("Long liqs $%.0f vs short $%.0f (ratio %.1fx) - longs flushed, bounce likely",
			l.LongUSD, l.ShortUSD, ratio)
	case l.LongUSD > 0 && l.ShortUSD/l.LongUSD >= e.cfg.LiqDominance:
		ratio := l.ShortUSD / l.LongUSD
		sig.Vote = models.VoteBearish
		sig.Strength = math.Min(1, (ratio-1)/3)
		sig.Detail = fmt.Sprintf("Short liqs $%.0f vs long $%.0f (ratio %.1fx) - shorts squeezed, pullback likely",
			l.ShortUSD, l.LongUSD, ratio)
	default:
		sig.Vote = models.VoteNeutral
		sig.Detail = fmt.Sprintf("Liquidations balanced - long $%.0f vs short $%.0f", l.LongUSD, l.ShortUSD)
	}

	return sig
}

// EvaluateOrderBook votes on bid/ask wall imbalance near the mid price. A
// strong bid wall is support below (bullish); a strong ask wall is resistance
// above (bearish).
func (e *Engine) EvaluateOrderBook(w *models.WallStrength) *models.SubSignal {
	if w == nil {
		return nil
	}

	ratio := w.WallRatio
	sig := &models.SubSignal{Source: SignalOrderBook, Weight: e.cfg.Weights.OrderBook}

	switch {
	case ratio >= e.cfg.WallBidStrong:
		sig.Vote = models.VoteBullish
		sig.Strength = math.Min(1, (ratio-1)/2)
		sig.Detail = fmt.Sprintf("Bid wall dominant - bids %.2f vs asks %.2f (ratio %.2f) - support below",
			w.BidWallVolume, w.AskWallVolume, ratio)
	case ratio <= e.cfg.WallAskStrong:
		sig.Vote = models.VoteBearish
		sig.Strength = math.Min(1, (1-ratio)/0.5)
		sig.Detail = fmt.Sprintf("Ask wall dominant - bids %.2f vs asks %.2f (ratio %.2f) - resistance above",
			w.BidWallVolume, w.AskWallVolume, ratio)
	default:
		sig.Vote = models.VoteNeutral
		sig.Detail = fmt.Sprintf("Walls balanced - ratio %.2f", ratio)
	}

	return sig
}

// EvaluateLongShort votes contrarian on the long/short account ratio: a very
// crowded side tends to get hurt.
func (e *Engine) EvaluateLongShort(ls *models.LongShortData) *models.SubSignal {
	if ls == nil {
		return nil
	}

	ratio := ls.CurrentRatio
	sig := &models.SubSignal{Source: SignalLongShort, Weight: e.cfg.Weights.LongShort}

	switch {
	case ratio >= e.cfg.LongShortHigh:
		sig.Vote = models.VoteBearish
		sig.Strength = math.Min(1, (ratio-2.0)/2.0)
		sig.Detail = fmt.Sprintf("L/S ratio %.2f - longs very crowded (contrarian bearish)", ratio)
	case ratio <= e.cfg.LongShortLow:
		sig.Vote = models.VoteBullish
		sig.Strength = math.Min(1, (1.0-ratio)/0.5)
		sig.Detail = fmt.Sprintf("L/S ratio %.2f - shorts very crowded (contrarian bullish)", ratio)
	default:
		sig.Vote = models.VoteNeutral
		sig.Detail = fmt.Sprintf("L/S ratio %.2f - within normal range", ratio)
	}

	return sig
}

// EvaluateNews votes on aggregated headline sentiment as a confirming signal.
func (e *Engine) EvaluateNews(n *models.NewsSummary) *models.SubSignal {
	if n == nil {
		return nil
	}

	sig := &models.SubSignal{Source: SignalNews, Weight: e.cfg.Weights.News}

	switch {
	case n.AvgScore > e.cfg.NewsBand:
		sig.Vote = models.VoteBullish
		sig.Strength = math.Min(1, n.AvgScore)
		sig.Detail = fmt.Sprintf("News sentiment bullish (score: %.3f) - %d bullish, %d bearish headlines",
			n.AvgScore, n.BullishCount, n.BearishCount)
	case n.AvgScore < -e.cfg.NewsBand:
		sig.Vote = models.VoteBearish
		sig.Strength = math.Min(1, math.Abs(n.AvgScore))
		sig.Detail = fmt.Sprintf("News sentiment bearish (score: %.3f) - %d bullish, %d bearish headlines",
			n.AvgScore, n.BullishCount, n.BearishCount)
	default:
		sig.Vote = models.VoteNeutral
		sig.Detail = fmt.Sprintf("News sentiment neutral (score: %.3f)", n.AvgScore)
	}

	return sig
}

// Evaluate runs every applicable evaluator over the cycle's fetch set and
// returns the sub-signals that could actually be produced, in fixed order.
// Failed sources are simply absent.
func (e *Engine) Evaluate(set models.FetchSet) []models.SubSignal {
	out := make([]models.SubSignal, 0, 5)

	var funding *models.FundingData
	var liqs *models.LiquidationData
	var ls *models.LongShortData
	if set.Derivatives != nil {
		funding = set.Derivatives.Funding
		liqs = set.Derivatives.Liquidations
		ls = set.Derivatives.LongShort
	}
	var walls *models.WallStrength
	if set.Market != nil {
		walls = set.Market.Walls
	}

	if s := e.EvaluateFunding(funding); s != nil {
		out = append(out, *s)
	}
	if s := e.EvaluateLiquidations(liqs); s != nil {
		out = append(out, *s)
	}
	if s := e.EvaluateOrderBook(walls); s != nil {
		out = append(out, *s)
	}
	if s := e.EvaluateLongShort(ls); s != nil {
		out = append(out, *s)
	}
	if s := e.EvaluateNews(set.News); s != nil {
		out = append(out, *s)
	}

	return out
}
