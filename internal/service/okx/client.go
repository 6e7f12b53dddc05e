package okx

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"BtcPulse/internal/domain/models"
	"BtcPulse/internal/domain/repository"
	"BtcPulse/internal/service/ratelimit"
	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

const (
	maxLiquidationEvents = 20
	longShortWindow      = 12 // hourly observations
)

// Client fetches perpetual-swap data from the OKX public API. The four
// endpoints fail independently; FetchDerivatives returns an error only when
// none of them produced data.
type Client struct {
	http     *pkghttp.Client
	log      *logger.Logger
	limiter  *ratelimit.Limiter
	baseURL  string
	instID   string
	currency string
	capacity float64
	refill   float64
}

func New(httpClient *pkghttp.Client, limiter *ratelimit.Limiter, log *logger.Logger, baseURL, instID, currency string, rateCapacity, rateRefill float64) repository.DerivativesSource {
	return &Client{
		http:     httpClient,
		log:      log.With(logger.String("source", models.SourceDerivatives)),
		limiter:  limiter,
		baseURL:  baseURL,
		instID:   instID,
		currency: currency,
		capacity: rateCapacity,
		refill:   rateRefill,
	}
}

// envelope is the common OKX response wrapper. A non-zero code means the
// request was rejected even with HTTP 200.
type envelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

func (c *Client) FetchDerivatives(ctx context.Context) (*models.DerivativesSnapshot, error) {
	snap := &models.DerivativesSnapshot{}

	if funding, err := c.fetchFunding(ctx); err != nil {
		c.log.Warn("funding rate fetch failed", logger.Error(err))
	} else {
		snap.Funding = funding
	}

	if oi, err := c.fetchOpenInterest(ctx); err != nil {
		c.log.Warn("open interest fetch failed", logger.Error(err))
	} else {
		snap.OpenInterest = oi
	}

	if ls, err := c.fetchLongShort(ctx); err != nil {
		c.log.Warn("long/short ratio fetch failed", logger.Error(err))
	} else {
		snap.LongShort = ls
	}

	if liqs, err := c.fetchLiquidations(ctx); err != nil {
		c.log.Warn("liquidations fetch failed", logger.Error(err))
	} else {
		snap.Liquidations = liqs
	}

	if snap.Empty() {
		return nil, fmt.Errorf("okx: all derivatives endpoints failed")
	}
	return snap, nil
}

type fundingRateRow struct {
	FundingRate string `json:"fundingRate"`
	FundingTime string `json:"fundingTime"`
}

func (c *Client) fetchFunding(ctx context.Context) (*models.FundingData, error) {
	var cur envelope[fundingRateRow]
	err := c.get(ctx, "/api/v5/public/funding-rate", map[string]string{"instId": c.instID}, &cur)
	if err != nil {
		return nil, err
	}
	if len(cur.Data) == 0 {
		return nil, fmt.Errorf("okx funding-rate: empty data (code=%s msg=%q)", cur.Code, cur.Msg)
	}

	rate, err := strconv.ParseFloat(cur.Data[0].FundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("okx funding-rate: parse rate %q: %w", cur.Data[0].FundingRate, err)
	}
	out := &models.FundingData{
		CurrentRate:     rate,
		NextFundingTime: parseMillis(cur.Data[0].FundingTime),
	}

	// History is best effort; the current rate alone still feeds the engine.
	var hist envelope[fundingRateRow]
	if err := c.get(ctx, "/api/v5/public/funding-rate-history", map[string]string{
		"instId": c.instID,
		"limit":  "10",
	}, &hist); err == nil {
		for _, row := range hist.Data {
			r, perr := strconv.ParseFloat(row.FundingRate, 64)
			if perr != nil {
				continue
			}
			out.RecentRates = append(out.RecentRates, models.FundingPoint{
				Rate: r,
				Time: parseMillis(row.FundingTime),
			})
		}
	}

	return out, nil
}

type openInterestRow struct {
	OI    string `json:"oi"`
	OICcy string `json:"oiCcy"`
	TS    string `json:"ts"`
}

func (c *Client) fetchOpenInterest(ctx context.Context) (*models.OpenInterestData, error) {
	var env envelope[openInterestRow]
	err := c.get(ctx, "/api/v5/public/open-interest", map[string]string{
		"instType": "SWAP",
		"instId":   c.instID,
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("okx open-interest: empty data (code=%s msg=%q)", env.Code, env.Msg)
	}

	row := env.Data[0]
	contracts, err := strconv.ParseFloat(row.OI, 64)
	if err != nil {
		return nil, fmt.Errorf("okx open-interest: parse oi %q: %w", row.OI, err)
	}
	btc, err := strconv.ParseFloat(row.OICcy, 64)
	if err != nil {
		return nil, fmt.Errorf("okx open-interest: parse oiCcy %q: %w", row.OICcy, err)
	}
	return &models.OpenInterestData{
		Contracts: contracts,
		BTC:       btc,
		Timestamp: parseMillis(row.TS),
	}, nil
}

func (c *Client) fetchLongShort(ctx context.Context) (*models.LongShortData, error) {
	// Rubik rows are positional string pairs: [ts, ratio].
	var env envelope[[]string]
	err := c.get(ctx, "/api/v5/rubik/stat/contracts/long-short-account-ratio", map[string]string{
		"ccy":    c.currency,
		"period": "1H",
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("okx long-short: empty data (code=%s msg=%q)", env.Code, env.Msg)
	}

	out := &models.LongShortData{}
	for i, row := range env.Data {
		if i >= longShortWindow {
			break
		}
		if len(row) < 2 {
			continue
		}
		ratio, perr := strconv.ParseFloat(row[1], 64)
		if perr != nil {
			continue
		}
		out.History = append(out.History, models.LongShortPoint{
			Timestamp: parseMillis(row[0]),
			Ratio:     ratio,
		})
	}
	if len(out.History) == 0 {
		return nil, fmt.Errorf("okx long-short: no parseable rows")
	}
	out.CurrentRatio = out.History[0].Ratio
	return out, nil
}

type liquidationBatch struct {
	Details []struct {
		PosSide string `json:"posSide"`
		BkPx    string `json:"bkPx"`
		Sz      string `json:"sz"`
		TS      string `json:"ts"`
	} `json:"details"`
}

func (c *Client) fetchLiquidations(ctx context.Context) (*models.LiquidationData, error) {
	var env envelope[liquidationBatch]
	err := c.get(ctx, "/api/v5/public/liquidation-orders", map[string]string{
		"instType": "SWAP",
		"uly":      c.currency + "-USDT",
		"state":    "filled",
	}, &env)
	if err != nil {
		return nil, err
	}

	out := &models.LiquidationData{}
	for _, batch := range env.Data {
		for _, d := range batch.Details {
			price, perr := strconv.ParseFloat(d.BkPx, 64)
			if perr != nil {
				continue
			}
			size, perr := strconv.ParseFloat(d.Sz, 64)
			if perr != nil {
				continue
			}
			value := price * size
			switch d.PosSide {
			case "long":
				out.LongUSD += value
				out.LongCount++
			case "short":
				out.ShortUSD += value
				out.ShortCount++
			}
			out.RecentEvents = append(out.RecentEvents, models.LiquidationEvent{
				Side:     d.PosSide,
				Price:    price,
				SizeBTC:  size,
				ValueUSD: value,
				Time:     parseMillis(d.TS),
			})
		}
	}
	out.TotalUSD = out.LongUSD + out.ShortUSD

	sort.Slice(out.RecentEvents, func(i, j int) bool {
		return out.RecentEvents[i].Time.After(out.RecentEvents[j].Time)
	})
	if len(out.RecentEvents) > maxLiquidationEvents {
		out.RecentEvents = out.RecentEvents[:maxLiquidationEvents]
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, dest interface{}) error {
	if !c.limiter.Allow("okx"+path, c.capacity, c.refill) {
		return fmt.Errorf("okx: rate limited on %s", path)
	}
	return c.http.GetJSON(ctx, c.baseURL+path, query, dest)
}

// parseMillis converts an OKX millisecond-epoch string. Unparseable input
// yields the zero time rather than an error; timestamps are informational.
func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
