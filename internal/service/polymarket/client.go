package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"BtcPulse/internal/domain/models"
	"BtcPulse/internal/domain/repository"
	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

// Client finds the best-matching active BTC prediction market on the
// Polymarket Gamma API.
type Client struct {
	http    *pkghttp.Client
	log     *logger.Logger
	baseURL string
	tagSlug string
	limit   int
	now     func() time.Time
}

func New(httpClient *pkghttp.Client, log *logger.Logger, baseURL, tagSlug string, limit int) repository.PredictionSource {
	return &Client{
		http:    httpClient,
		log:     log.With(logger.String("source", models.SourcePrediction)),
		baseURL: baseURL,
		tagSlug: tagSlug,
		limit:   limit,
		now:     time.Now,
	}
}

// gammaMarket is one market row. Outcomes, outcomePrices and clobTokenIds
// arrive as JSON strings that themselves encode string arrays.
type gammaMarket struct {
	Question      string `json:"question"`
	Slug          string `json:"slug"`
	EndDate       string `json:"endDate"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	ClobTokenIDs  string `json:"clobTokenIds"`
}

func (c *Client) FetchPrediction(ctx context.Context) (*models.PredictionContext, error) {
	var markets []gammaMarket
	err := c.http.GetJSON(ctx, c.baseURL+"/markets", map[string]string{
		"limit":     strconv.Itoa(c.limit),
		"active":    "true",
		"closed":    "false",
		"tag_slug":  c.tagSlug,
		"order":     "volume24hr",
		"ascending": "false",
	}, &markets)
	if err != nil {
		return nil, fmt.Errorf("polymarket markets: %w", err)
	}

	candidates := c.filterBTC(markets)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("polymarket: no active btc market found")
	}

	// Short-horizon "up or down" markets are the relevant ones; fall back to
	// the highest-volume BTC market otherwise.
	sort.SliceStable(candidates, func(i, j int) bool {
		iUp := strings.Contains(strings.ToLower(candidates[i].Question), "up or down")
		jUp := strings.Contains(strings.ToLower(candidates[j].Question), "up or down")
		return iUp && !jUp
	})

	best := candidates[0]
	pc, err := parseMarket(best)
	if err != nil {
		return nil, fmt.Errorf("polymarket: parse market %q: %w", best.Slug, err)
	}
	c.log.Debug("prediction market selected",
		logger.String("slug", pc.Slug),
		logger.Int("outcomes", len(pc.Outcomes)))
	return pc, nil
}

func (c *Client) filterBTC(markets []gammaMarket) []gammaMarket {
	now := c.now().UTC()
	var out []gammaMarket
	for _, m := range markets {
		q := strings.ToLower(m.Question)
		if !strings.Contains(q, "btc") && !strings.Contains(q, "bitcoin") {
			continue
		}
		if m.EndDate != "" {
			end, err := time.Parse(time.RFC3339, m.EndDate)
			if err != nil {
				continue
			}
			if end.Before(now) {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func parseMarket(m gammaMarket) (*models.PredictionContext, error) {
	outcomes, err := decodeStringArray(m.Outcomes)
	if err != nil {
		return nil, fmt.Errorf("outcomes: %w", err)
	}
	prices, err := decodeStringArray(m.OutcomePrices)
	if err != nil {
		return nil, fmt.Errorf("outcomePrices: %w", err)
	}
	tokenIDs, err := decodeStringArray(m.ClobTokenIDs)
	if err != nil {
		return nil, fmt.Errorf("clobTokenIds: %w", err)
	}
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("no outcomes")
	}

	pc := &models.PredictionContext{
		Question: m.Question,
		Slug:     m.Slug,
	}
	if m.EndDate != "" {
		if end, perr := time.Parse(time.RFC3339, m.EndDate); perr == nil {
			pc.EndDate = end.UTC()
		}
	}

	for i, outcome := range outcomes {
		o := models.PredictionOutcome{Outcome: outcome}
		if i < len(tokenIDs) {
			o.TokenID = tokenIDs[i]
		}
		if i < len(prices) {
			if p, perr := strconv.ParseFloat(prices[i], 64); perr == nil {
				o.Price = &p
			}
		}
		pc.Outcomes = append(pc.Outcomes, o)
	}
	return pc, nil
}

// decodeStringArray handles Gamma's double-encoded fields, e.g.
// "[\"Up\", \"Down\"]". An empty field decodes to nil.
func decodeStringArray(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
