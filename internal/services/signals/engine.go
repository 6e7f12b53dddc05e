package signals

import (
	"fmt"
	"math"
	"time"

	"BtcPulse/internal/domain/models"
)

// Engine combines weighted sub-signal votes into a directional verdict.
// It is stateless beyond its configuration; Decide is a pure function of its
// inputs, so identical source data always produces an identical verdict.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Decide turns the cycle's available sub-signals into a verdict.
//
// weightedScore sums weight * strength * sign over available signals. The
// score is normalized by the weight that was actually available, so a cycle
// where low-weight sources failed is comparable to a full cycle. A NEUTRAL
// vote contributes zero score but its weight stays in the denominator,
// diluting confidence rather than shrinking it.
func (e *Engine) Decide(subs []models.SubSignal, now time.Time) models.Verdict {
	v := models.Verdict{
		Signals:   subs,
		Timestamp: now,
	}

	if len(subs) == 0 {
		v.Direction = models.DirectionSkip
		v.InsufficientData = true
		return v
	}

	var weighted, available float64
	for _, s := range subs {
		weighted += s.Weight * s.Strength * s.Vote.Sign()
		available += s.Weight
		switch s.Vote {
		case models.VoteBullish:
			v.UpCount++
		case models.VoteBearish:
			v.DownCount++
		}
	}

	v.WeightedScore = weighted
	v.AvailableWeight = available

	if available == 0 {
		v.Direction = models.DirectionSkip
		v.InsufficientData = true
		return v
	}

	v.NormalizedScore = weighted / available
	v.Confidence = math.Min(1, math.Abs(v.NormalizedScore))

	switch {
	case v.NormalizedScore >= e.cfg.UpThreshold:
		v.Direction = models.DirectionUp
	case v.NormalizedScore <= -e.cfg.DownThreshold:
		v.Direction = models.DirectionDown
	default:
		v.Direction = models.DirectionSkip
	}

	return v
}

// CheckOdds reports whether the prediction market offers value for the given
// direction: shares are worth buying only at or below the configured maximum
// price. SKIP never bets.
func (e *Engine) CheckOdds(p *models.PredictionContext, dir models.Direction) models.OddsValue {
	if p == nil {
		return models.OddsValue{Detail: "No prediction market data"}
	}

	var outcome string
	switch dir {
	case models.DirectionUp:
		outcome = "Up"
	case models.DirectionDown:
		outcome = "Down"
	default:
		return models.OddsValue{Detail: "Signal is SKIP - no bet"}
	}

	price := p.OutcomePrice(outcome)
	if price == nil {
		return models.OddsValue{Detail: "No price for target outcome"}
	}

	if *price <= e.cfg.MaxSharePrice {
		payout := 1.0 / *price
		return models.OddsValue{
			HasValue:        true,
			SharePrice:      *price,
			PotentialPayout: math.Round(payout*100) / 100,
			Detail:          fmt.Sprintf("%s shares at $%.2f -> %.2fx payout if correct", dir, *price, payout),
		}
	}

	return models.OddsValue{
		SharePrice: *price,
		Detail:     fmt.Sprintf("%s shares at $%.2f - too expensive (max $%.2f)", dir, *price, e.cfg.MaxSharePrice),
	}
}
