package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"BtcPulse/internal/domain/models"
	"BtcPulse/internal/domain/repository"
	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

// Client fetches spot price and order-book depth from the Kraken public API.
type Client struct {
	http      *pkghttp.Client
	log       *logger.Logger
	baseURL   string
	pair      string
	depth     int
	wallRange float64
}

func New(httpClient *pkghttp.Client, log *logger.Logger, baseURL, pair string, depth int, wallRange float64) repository.MarketSource {
	return &Client{
		http:      httpClient,
		log:       log.With(logger.String("source", models.SourceMarket)),
		baseURL:   baseURL,
		pair:      pair,
		depth:     depth,
		wallRange: wallRange,
	}
}

// envelope is Kraken's response wrapper. Errors arrive as a string list with
// HTTP 200; result keys are the normalized pair name, which differs from the
// requested one (XBTUSD becomes XXBTZUSD), so results are read from a map.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (c *Client) FetchMarket(ctx context.Context) (*models.MarketSnapshot, error) {
	price, err := c.fetchTicker(ctx)
	if err != nil {
		return nil, err
	}

	snap := &models.MarketSnapshot{Price: price}

	// Depth is best effort; price alone is still a usable snapshot, the
	// order-book signal just goes absent.
	walls, err := c.fetchWalls(ctx)
	if err != nil {
		c.log.Warn("order book fetch failed", logger.Error(err))
	} else {
		snap.Walls = walls
	}

	return snap, nil
}

type tickerInfo struct {
	Close []string `json:"c"`
}

func (c *Client) fetchTicker(ctx context.Context) (float64, error) {
	var env envelope
	err := c.http.GetJSON(ctx, c.baseURL+"/0/public/Ticker", map[string]string{"pair": c.pair}, &env)
	if err != nil {
		return 0, err
	}
	if len(env.Error) > 0 {
		return 0, fmt.Errorf("kraken ticker: %s", strings.Join(env.Error, ", "))
	}

	var result map[string]tickerInfo
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return 0, fmt.Errorf("kraken ticker: decode result: %w", err)
	}
	for _, info := range result {
		if len(info.Close) == 0 {
			continue
		}
		price, perr := strconv.ParseFloat(info.Close[0], 64)
		if perr != nil {
			return 0, fmt.Errorf("kraken ticker: parse close %q: %w", info.Close[0], perr)
		}
		return price, nil
	}
	return 0, fmt.Errorf("kraken ticker: no pair in result")
}

// Depth levels arrive as [price, volume, timestamp] with price and volume
// quoted and the timestamp bare, so levels decode as raw messages.
type depthInfo struct {
	Bids [][]json.RawMessage `json:"bids"`
	Asks [][]json.RawMessage `json:"asks"`
}

// Level is one parsed side of the book.
type Level struct {
	Price  float64
	Volume float64
}

func (c *Client) fetchWalls(ctx context.Context) (*models.WallStrength, error) {
	var env envelope
	err := c.http.GetJSON(ctx, c.baseURL+"/0/public/Depth", map[string]string{
		"pair":  c.pair,
		"count": strconv.Itoa(c.depth),
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Error) > 0 {
		return nil, fmt.Errorf("kraken depth: %s", strings.Join(env.Error, ", "))
	}

	var result map[string]depthInfo
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, fmt.Errorf("kraken depth: decode result: %w", err)
	}
	for _, book := range result {
		bids := parseLevels(book.Bids)
		asks := parseLevels(book.Asks)
		walls := ComputeWallStrength(bids, asks, c.wallRange)
		if walls == nil {
			return nil, fmt.Errorf("kraken depth: empty book")
		}
		return walls, nil
	}
	return nil, fmt.Errorf("kraken depth: no pair in result")
}

func parseLevels(raw [][]json.RawMessage) []Level {
	levels := make([]Level, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			continue
		}
		price, err1 := parseNumeric(entry[0])
		volume, err2 := parseNumeric(entry[1])
		if err1 != nil || err2 != nil {
			continue
		}
		levels = append(levels, Level{Price: price, Volume: volume})
	}
	return levels
}

func parseNumeric(raw json.RawMessage) (float64, error) {
	s := strings.Trim(string(raw), `"`)
	return strconv.ParseFloat(s, 64)
}

// wallRatioCap stands in for an infinite ratio when the ask wall is empty.
// encoding/json cannot carry +Inf and the evaluator saturates long before
// this value anyway.
const wallRatioCap = 1e6

// ComputeWallStrength sums bid and ask volume within rangePct of the mid
// price. The ratio is bid over ask volume, capped when the ask wall is empty.
// Both sides empty means there is no book to measure.
func ComputeWallStrength(bids, asks []Level, rangePct float64) *models.WallStrength {
	if len(bids) == 0 && len(asks) == 0 {
		return nil
	}

	var bestBid, bestAsk float64
	if len(bids) > 0 {
		bestBid = bids[0].Price
	}
	if len(asks) > 0 {
		bestAsk = asks[0].Price
	}
	mid := (bestBid + bestAsk) / 2
	lower := mid * (1 - rangePct)
	upper := mid * (1 + rangePct)

	w := &models.WallStrength{MidPrice: mid}
	for _, b := range bids {
		if b.Price >= lower {
			w.BidWallVolume += b.Volume
		}
	}
	for _, a := range asks {
		if a.Price <= upper {
			w.AskWallVolume += a.Volume
		}
	}

	if w.AskWallVolume > 0 {
		w.WallRatio = math.Min(w.BidWallVolume/w.AskWallVolume, wallRatioCap)
	} else {
		w.WallRatio = wallRatioCap
	}
	return w
}
