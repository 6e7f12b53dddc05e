package kraken

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

func TestComputeWallStrength(t *testing.T) {
	t.Run("sums volume within the band only", func(t *testing.T) {
		// Mid price 100; 1% band covers [99, 101].
		bids := []Level{
			{Price: 99.5, Volume: 2},
			{Price: 99.1, Volume: 3},
			{Price: 95.0, Volume: 50}, // outside band
		}
		asks := []Level{
			{Price: 100.5, Volume: 4},
			{Price: 105.0, Volume: 40}, // outside band
		}

		w := ComputeWallStrength(bids, asks, 0.01)
		require.NotNil(t, w)
		assert.InDelta(t, 100.0, w.MidPrice, 1e-9)
		assert.InDelta(t, 5.0, w.BidWallVolume, 1e-9)
		assert.InDelta(t, 4.0, w.AskWallVolume, 1e-9)
		assert.InDelta(t, 1.25, w.WallRatio, 1e-9)
	})

	t.Run("one-sided book caps the ratio", func(t *testing.T) {
		bids := []Level{{Price: 100.0, Volume: 10}}

		w := ComputeWallStrength(bids, nil, 0.01)
		require.NotNil(t, w)
		assert.InDelta(t, 10.0, w.BidWallVolume, 1e-9)
		assert.Zero(t, w.AskWallVolume)
		assert.Equal(t, wallRatioCap, w.WallRatio)
	})

	t.Run("empty book yields nil", func(t *testing.T) {
		assert.Nil(t, ComputeWallStrength(nil, nil, 0.01))
	})
}

func TestFetchMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/0/public/Ticker":
			assert.Equal(t, "XBTUSD", r.URL.Query().Get("pair"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": []string{},
				"result": map[string]interface{}{
					"XXBTZUSD": map[string]interface{}{
						"c": []string{"64123.40000", "0.01000000"},
					},
				},
			})
		case "/0/public/Depth":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": []string{},
				"result": map[string]interface{}{
					"XXBTZUSD": map[string]interface{}{
						"bids": [][]interface{}{
							{"64100.0", "1.5", 1693500000},
							{"63000.0", "9.9", 1693500001},
						},
						"asks": [][]interface{}{
							{"64150.0", "1.0", 1693500002},
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	client := New(pkghttp.NewClient(), log, srv.URL, "XBTUSD", 100, 0.01)
	snap, err := client.FetchMarket(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 64123.4, snap.Price, 1e-9)
	require.NotNil(t, snap.Walls)
	// Mid 64125; 1% band keeps the near bid and the ask, drops the deep bid.
	assert.InDelta(t, 1.5, snap.Walls.BidWallVolume, 1e-9)
	assert.InDelta(t, 1.0, snap.Walls.AskWallVolume, 1e-9)
	assert.InDelta(t, 1.5, snap.Walls.WallRatio, 1e-9)
}

func TestFetchMarketAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  []string{"EQuery:Unknown asset pair"},
			"result": map[string]interface{}{},
		})
	}))
	defer srv.Close()

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	client := New(pkghttp.NewClient(), log, srv.URL, "NOPE", 100, 0.01)
	_, err = client.FetchMarket(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown asset pair")
}
