package models

import "time"

// Vote is the direction a single sub-signal leans.
type Vote string

const (
	VoteBullish Vote = "bullish"
	VoteBearish Vote = "bearish"
	VoteNeutral Vote = "neutral"
)

// Sign maps a vote to its score multiplier.
func (v Vote) Sign() float64 {
	switch v {
	case VoteBullish:
		return 1
	case VoteBearish:
		return -1
	default:
		return 0
	}
}

// Direction is the final recommendation for a cycle.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionSkip Direction = "SKIP"
)

// SubSignal is the result of one evaluator for one cycle. Immutable once built.
type SubSignal struct {
	Source   string  `json:"source"`
	Vote     Vote    `json:"vote"`
	Strength float64 `json:"strength"`
	Weight   float64 `json:"weight"`
	Detail   string  `json:"detail"`
}

// Verdict is the combined recommendation produced by the decision engine.
type Verdict struct {
	Direction        Direction   `json:"direction"`
	Confidence       float64     `json:"confidence"`
	WeightedScore    float64     `json:"weighted_score"`
	NormalizedScore  float64     `json:"normalized_score"`
	AvailableWeight  float64     `json:"available_weight"`
	Signals          []SubSignal `json:"signals"`
	UpCount          int         `json:"up_count"`
	DownCount        int         `json:"down_count"`
	InsufficientData bool        `json:"insufficient_data,omitempty"`
	Timestamp        time.Time   `json:"timestamp"`
}

// OddsValue is the prediction-market value check for a verdict direction.
type OddsValue struct {
	HasValue        bool    `json:"has_value"`
	SharePrice      float64 `json:"share_price,omitempty"`
	PotentialPayout float64 `json:"potential_payout,omitempty"`
	Detail          string  `json:"detail"`
}

// CacheState is the single published state read by all handlers. The whole
// struct is swapped on publish, never patched, so readers always see one
// cycle's complete output.
type CacheState struct {
	Verdict     Verdict   `json:"final_signal"`
	Snapshots   FetchSet  `json:"snapshots"`
	BTCPrice    float64   `json:"btc_price"`
	Odds        OddsValue `json:"odds_value"`
	GeneratedAt time.Time `json:"generated_at"`
}

// HistoryEntry records one published verdict and the spot price at the time.
type HistoryEntry struct {
	Verdict  Verdict `json:"verdict"`
	BTCPrice float64 `json:"btc_price"`
}
