package cryptocompare

import (
	"math"
	"strings"

	"BtcPulse/internal/domain/models"
)

// sentimentBand is the neutral zone around zero for labeling scores.
const sentimentBand = 0.1

// General-tone words carry a small valence; a headline like "bitcoin gains
// strong momentum" leans positive before any domain keyword fires.
var positiveWords = map[string]float64{
	"gain": 0.1, "gains": 0.1, "rise": 0.1, "rises": 0.1, "rising": 0.1,
	"high": 0.1, "higher": 0.1, "strong": 0.1, "growth": 0.1, "soar": 0.15,
	"soars": 0.15, "jump": 0.1, "jumps": 0.1, "record": 0.1, "boost": 0.1,
	"positive": 0.1, "optimism": 0.1, "optimistic": 0.1, "recovery": 0.1,
	"recover": 0.1, "recovers": 0.1, "momentum": 0.05, "upside": 0.1,
}

var negativeWords = map[string]float64{
	"fall": 0.1, "falls": 0.1, "falling": 0.1, "drop": 0.1, "drops": 0.1,
	"low": 0.1, "lower": 0.1, "weak": 0.1, "decline": 0.1, "declines": 0.1,
	"tumble": 0.15, "tumbles": 0.15, "slump": 0.15, "slumps": 0.15,
	"fear": 0.1, "fears": 0.1, "warning": 0.1, "warns": 0.1, "risk": 0.05,
	"negative": 0.1, "panic": 0.15, "loss": 0.1, "losses": 0.1, "downside": 0.1,
}

// Domain phrases that move short-horizon BTC trading regardless of tone.
var bullishKeywords = []string{
	"etf approved", "etf approval", "institutional", "adoption",
	"bullish", "rally", "surge", "breakout", "all-time high", "ath",
	"accumulation", "buying", "inflow",
}

var bearishKeywords = []string{
	"hack", "hacked", "exploit", "ban", "banned", "crackdown",
	"bearish", "crash", "plunge", "dump", "sell-off", "selloff",
	"liquidation", "outflow", "sec", "lawsuit", "fraud",
}

const keywordWeight = 0.2

// ScoreHeadline scores one headline. The title carries the word-valence
// polarity; the body (first 200 chars) only contributes keyword hits.
func ScoreHeadline(title, body string) models.HeadlineSentiment {
	if len(body) > 200 {
		body = body[:200]
	}
	text := strings.ToLower(title + " " + body)

	polarity := wordPolarity(strings.ToLower(title))

	var bullishHits, bearishHits int
	for _, kw := range bullishKeywords {
		if strings.Contains(text, kw) {
			bullishHits++
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(text, kw) {
			bearishHits++
		}
	}

	score := polarity + float64(bullishHits-bearishHits)*keywordWeight
	score = math.Max(-1, math.Min(1, score))

	return models.HeadlineSentiment{
		Score:       round3(score),
		Label:       labelFor(score),
		BullishHits: bullishHits,
		BearishHits: bearishHits,
	}
}

func wordPolarity(title string) float64 {
	var polarity float64
	for _, word := range strings.FieldsFunc(title, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if v, ok := positiveWords[word]; ok {
			polarity += v
		}
		if v, ok := negativeWords[word]; ok {
			polarity -= v
		}
	}
	return polarity
}

func labelFor(score float64) models.Vote {
	switch {
	case score > sentimentBand:
		return models.VoteBullish
	case score < -sentimentBand:
		return models.VoteBearish
	default:
		return models.VoteNeutral
	}
}

// Summarize aggregates headline sentiment into a cycle-level view.
func Summarize(headlines []models.Headline) *models.NewsSummary {
	if len(headlines) == 0 {
		return nil
	}

	summary := &models.NewsSummary{Headlines: headlines}
	var total float64
	for _, h := range headlines {
		total += h.Sentiment.Score
		switch h.Sentiment.Label {
		case models.VoteBullish:
			summary.BullishCount++
		case models.VoteBearish:
			summary.BearishCount++
		default:
			summary.NeutralCount++
		}
	}
	summary.AvgScore = round3(total / float64(len(headlines)))
	summary.Overall = labelFor(summary.AvgScore)
	return summary
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
