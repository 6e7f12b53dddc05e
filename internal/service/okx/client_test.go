package okx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcPulse/internal/service/ratelimit"
	pkghttp "BtcPulse/pkg/http"
	"BtcPulse/pkg/logger"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	src := New(pkghttp.NewClient(), ratelimit.New(), log, baseURL, "BTC-USDT-SWAP", "BTC", 100, 100)
	return src.(*Client)
}

func okxHandler(responses map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			http.Error(w, `{"code":"50011","msg":"unknown endpoint","data":[]}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchDerivativesAllEndpoints(t *testing.T) {
	srv := httptest.NewServer(okxHandler(map[string]string{
		"/api/v5/public/funding-rate": `{"code":"0","msg":"","data":[
			{"fundingRate":"0.00015","fundingTime":"1693526400000"}]}`,
		"/api/v5/public/funding-rate-history": `{"code":"0","msg":"","data":[
			{"fundingRate":"0.0001","fundingTime":"1693497600000"},
			{"fundingRate":"-0.00005","fundingTime":"1693468800000"}]}`,
		"/api/v5/public/open-interest": `{"code":"0","msg":"","data":[
			{"oi":"2500000","oiCcy":"25000","ts":"1693526400000"}]}`,
		"/api/v5/rubik/stat/contracts/long-short-account-ratio": `{"code":"0","msg":"","data":[
			["1693526400000","1.85"],
			["1693522800000","1.72"]]}`,
		"/api/v5/public/liquidation-orders": `{"code":"0","msg":"","data":[
			{"details":[
				{"posSide":"long","bkPx":"64000","sz":"2","ts":"1693526300000"},
				{"posSide":"short","bkPx":"64100","sz":"1","ts":"1693526350000"}]}]}`,
	}))
	defer srv.Close()

	snap, err := testClient(t, srv.URL).FetchDerivatives(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snap.Funding)
	assert.InDelta(t, 0.00015, snap.Funding.CurrentRate, 1e-12)
	assert.Equal(t, time.UnixMilli(1693526400000).UTC(), snap.Funding.NextFundingTime)
	require.Len(t, snap.Funding.RecentRates, 2)
	assert.InDelta(t, -0.00005, snap.Funding.RecentRates[1].Rate, 1e-12)

	require.NotNil(t, snap.OpenInterest)
	assert.InDelta(t, 2500000, snap.OpenInterest.Contracts, 1e-9)
	assert.InDelta(t, 25000, snap.OpenInterest.BTC, 1e-9)

	require.NotNil(t, snap.LongShort)
	assert.InDelta(t, 1.85, snap.LongShort.CurrentRatio, 1e-9)
	require.Len(t, snap.LongShort.History, 2)

	require.NotNil(t, snap.Liquidations)
	assert.InDelta(t, 128000, snap.Liquidations.LongUSD, 1e-9)
	assert.InDelta(t, 64100, snap.Liquidations.ShortUSD, 1e-9)
	assert.Equal(t, 1, snap.Liquidations.LongCount)
	assert.Equal(t, 1, snap.Liquidations.ShortCount)
	assert.InDelta(t, 192100, snap.Liquidations.TotalUSD, 1e-9)
	require.Len(t, snap.Liquidations.RecentEvents, 2)
	// Most recent first.
	assert.Equal(t, "short", snap.Liquidations.RecentEvents[0].Side)
}

func TestFetchDerivativesPartialFailure(t *testing.T) {
	// Only funding answers; the other endpoints 404.
	srv := httptest.NewServer(okxHandler(map[string]string{
		"/api/v5/public/funding-rate": `{"code":"0","msg":"","data":[
			{"fundingRate":"-0.0002","fundingTime":"1693526400000"}]}`,
	}))
	defer srv.Close()

	snap, err := testClient(t, srv.URL).FetchDerivatives(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snap.Funding)
	assert.InDelta(t, -0.0002, snap.Funding.CurrentRate, 1e-12)
	assert.Empty(t, snap.Funding.RecentRates)
	assert.Nil(t, snap.OpenInterest)
	assert.Nil(t, snap.LongShort)
	assert.Nil(t, snap.Liquidations)
}

func TestFetchDerivativesAllEndpointsDown(t *testing.T) {
	srv := httptest.NewServer(okxHandler(nil))
	defer srv.Close()

	snap, err := testClient(t, srv.URL).FetchDerivatives(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestFetchDerivativesRateLimited(t *testing.T) {
	srv := httptest.NewServer(okxHandler(nil))
	defer srv.Close()

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	// Zero-capacity buckets reject every call without touching the network.
	src := New(pkghttp.NewClient(), ratelimit.New(), log, srv.URL, "BTC-USDT-SWAP", "BTC", 0.5, 0)
	_, err = src.FetchDerivatives(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all derivatives endpoints failed")
}
