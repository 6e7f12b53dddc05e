package cryptocompare

import (
	"context"
	"fmt"
	"time"

	"BtcPulse/internal/domain/models"
	"BtcPulse/internal/domain/repository"
	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

// Client fetches BTC headlines from the CryptoCompare news API and scores
// them locally. The endpoint needs no API key.
type Client struct {
	http     *pkghttp.Client
	log      *logger.Logger
	baseURL  string
	category string
	limit    int
}

func New(httpClient *pkghttp.Client, log *logger.Logger, baseURL, category string, limit int) repository.NewsSource {
	return &Client{
		http:     httpClient,
		log:      log.With(logger.String("source", models.SourceNews)),
		baseURL:  baseURL,
		category: category,
		limit:    limit,
	}
}

type newsResponse struct {
	Message string `json:"Message"`
	Data    []struct {
		Title       string `json:"title"`
		Body        string `json:"body"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedOn int64  `json:"published_on"`
		SourceInfo  struct {
			Name string `json:"name"`
		} `json:"source_info"`
	} `json:"Data"`
}

func (c *Client) FetchNews(ctx context.Context) (*models.NewsSummary, error) {
	var resp newsResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/data/v2/news/", map[string]string{
		"categories": c.category,
		"lang":       "EN",
		"sortOrder":  "latest",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare news: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("cryptocompare news: no items (message=%q)", resp.Message)
	}

	items := resp.Data
	if len(items) > c.limit {
		items = items[:c.limit]
	}

	headlines := make([]models.Headline, 0, len(items))
	for _, item := range items {
		source := item.SourceInfo.Name
		if source == "" {
			source = item.Source
		}
		headlines = append(headlines, models.Headline{
			Title:       item.Title,
			Source:      source,
			PublishedAt: time.Unix(item.PublishedOn, 0).UTC(),
			URL:         item.URL,
			Sentiment:   ScoreHeadline(item.Title, item.Body),
		})
	}

	summary := Summarize(headlines)
	c.log.Debug("news scored",
		logger.Int("headlines", len(headlines)),
		logger.Float64("avg_score", summary.AvgScore),
		logger.String("overall", string(summary.Overall)))
	return summary, nil
}
