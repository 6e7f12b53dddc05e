package cryptocompare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcPulse/internal/domain/models"
)

func TestScoreHeadlineKeywords(t *testing.T) {
	t.Run("bullish keywords push the score up", func(t *testing.T) {
		s := ScoreHeadline("Bitcoin ETF approval sparks institutional rally", "")
		assert.Equal(t, models.VoteBullish, s.Label)
		assert.Equal(t, 3, s.BullishHits) // etf approval, institutional, rally
		assert.Zero(t, s.BearishHits)
		assert.Greater(t, s.Score, 0.1)
	})

	t.Run("bearish keywords push the score down", func(t *testing.T) {
		s := ScoreHeadline("Exchange hacked, SEC lawsuit triggers sell-off", "")
		assert.Equal(t, models.VoteBearish, s.Label)
		assert.GreaterOrEqual(t, s.BearishHits, 3)
		assert.Less(t, s.Score, -0.1)
	})

	t.Run("plain headline stays neutral", func(t *testing.T) {
		s := ScoreHeadline("Bitcoin trades sideways as volume thins", "")
		assert.Equal(t, models.VoteNeutral, s.Label)
		assert.Zero(t, s.BullishHits)
		assert.Zero(t, s.BearishHits)
	})

	t.Run("score is clamped to one", func(t *testing.T) {
		s := ScoreHeadline("ETF approval institutional adoption bullish rally surge breakout inflow", "")
		assert.Equal(t, 1.0, s.Score)
	})

	t.Run("body keywords count too", func(t *testing.T) {
		s := ScoreHeadline("Market update", "Heavy liquidation and outflow as crackdown widens")
		assert.GreaterOrEqual(t, s.BearishHits, 3)
		assert.Equal(t, models.VoteBearish, s.Label)
	})
}

func TestScoreHeadlineWordTone(t *testing.T) {
	pos := ScoreHeadline("Bitcoin rises to record high on strong momentum", "")
	assert.Greater(t, pos.Score, 0.0)

	neg := ScoreHeadline("Bitcoin falls as fear and losses mount", "")
	assert.Less(t, neg.Score, 0.0)
}

func TestSummarize(t *testing.T) {
	t.Run("no headlines yields nil", func(t *testing.T) {
		assert.Nil(t, Summarize(nil))
	})

	t.Run("aggregates counts and average", func(t *testing.T) {
		headlines := []models.Headline{
			{Sentiment: models.HeadlineSentiment{Score: 0.4, Label: models.VoteBullish}},
			{Sentiment: models.HeadlineSentiment{Score: 0.2, Label: models.VoteBullish}},
			{Sentiment: models.HeadlineSentiment{Score: -0.3, Label: models.VoteBearish}},
			{Sentiment: models.HeadlineSentiment{Score: 0.0, Label: models.VoteNeutral}},
		}

		sum := Summarize(headlines)
		require.NotNil(t, sum)
		assert.Equal(t, 2, sum.BullishCount)
		assert.Equal(t, 1, sum.BearishCount)
		assert.Equal(t, 1, sum.NeutralCount)
		assert.InDelta(t, 0.075, sum.AvgScore, 1e-9)
		assert.Equal(t, models.VoteNeutral, sum.Overall)
	})

	t.Run("overall label follows the average", func(t *testing.T) {
		sum := Summarize([]models.Headline{
			{Sentiment: models.HeadlineSentiment{Score: 0.5, Label: models.VoteBullish}},
			{Sentiment: models.HeadlineSentiment{Score: 0.3, Label: models.VoteBullish}},
		})
		require.NotNil(t, sum)
		assert.Equal(t, models.VoteBullish, sum.Overall)
	})
}
