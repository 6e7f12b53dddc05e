package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
environment: test
server:
  port: 5124
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 5124, cfg.Server.Port)

	assert.Equal(t, 45*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 10*time.Second, cfg.Refresh.SourceTimeout)
	assert.Equal(t, 50, cfg.Refresh.HistorySize)

	assert.Equal(t, 0.3, cfg.Engine.UpThreshold)
	assert.Equal(t, 1.5, cfg.Engine.Weights.Funding)
	assert.Equal(t, 1.5, cfg.Engine.Weights.Liquidations)
	assert.Equal(t, 1.0, cfg.Engine.Weights.OrderBook)
	assert.Equal(t, 0.5, cfg.Engine.Weights.LongShort)
	assert.Equal(t, 0.5, cfg.Engine.Weights.News)
	assert.Equal(t, 0.0001, cfg.Engine.FundingHigh)
	assert.Equal(t, -0.0001, cfg.Engine.FundingLow)
	assert.Equal(t, 0.55, cfg.Engine.MaxSharePrice)

	assert.Equal(t, "https://www.okx.com", cfg.Sources.OKX.BaseURL)
	assert.Equal(t, "BTC-USDT-SWAP", cfg.Sources.OKX.InstID)
	assert.Equal(t, "XBTUSD", cfg.Sources.Kraken.Pair)
	assert.Equal(t, 0.01, cfg.Sources.Kraken.WallRange)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: production
server:
  port: 8080
engine:
  up_threshold: 0.4
  weights:
    funding: 2.0
sources:
  okx:
    inst_id: ETH-USDT-SWAP
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.4, cfg.Engine.UpThreshold)
	assert.Equal(t, 2.0, cfg.Engine.Weights.Funding)
	// Unset siblings still get defaults.
	assert.Equal(t, 0.3, cfg.Engine.DownThreshold)
	assert.Equal(t, 1.5, cfg.Engine.Weights.Liquidations)
	assert.Equal(t, "ETH-USDT-SWAP", cfg.Sources.OKX.InstID)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing environment", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server:\n  port: 5124\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "environment")
	})

	t.Run("bad port", func(t *testing.T) {
		_, err := Load(writeConfig(t, "environment: test\nserver:\n  port: 99999\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OKX_BASE_URL", "https://okx.example.test")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://okx.example.test", cfg.Sources.OKX.BaseURL)
}

func TestLoadWithEnvIgnoresUnparseable(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("REFRESH_INTERVAL", "soon")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 5124, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Refresh.Interval)
}
