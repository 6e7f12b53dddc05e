package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Refresh struct {
		Interval      time.Duration `yaml:"interval"`
		SourceTimeout time.Duration `yaml:"source_timeout"`
		HistorySize   int           `yaml:"history_size"`
	} `yaml:"refresh"`
	Engine struct {
		UpThreshold   float64 `yaml:"up_threshold"`
		DownThreshold float64 `yaml:"down_threshold"`
		Weights       struct {
			Funding      float64 `yaml:"funding"`
			Liquidations float64 `yaml:"liquidations"`
			OrderBook    float64 `yaml:"order_book"`
			LongShort    float64 `yaml:"long_short_ratio"`
			News         float64 `yaml:"news"`
		} `yaml:"weights"`
		FundingHigh   float64 `yaml:"funding_high"`
		FundingLow    float64 `yaml:"funding_low"`
		LiqDominance  float64 `yaml:"liq_dominance_ratio"`
		WallBidStrong float64 `yaml:"wall_bid_strong"`
		WallAskStrong float64 `yaml:"wall_ask_strong"`
		LongShortHigh float64 `yaml:"long_short_high"`
		LongShortLow  float64 `yaml:"long_short_low"`
		NewsBand      float64 `yaml:"news_band"`
		MaxSharePrice float64 `yaml:"max_share_price"`
	} `yaml:"engine"`
	Sources struct {
		OKX struct {
			BaseURL      string  `yaml:"base_url"`
			InstID       string  `yaml:"inst_id"`
			Currency     string  `yaml:"currency"`
			RateCapacity float64 `yaml:"rate_capacity"`
			RateRefill   float64 `yaml:"rate_refill_per_sec"`
		} `yaml:"okx"`
		Kraken struct {
			BaseURL   string  `yaml:"base_url"`
			Pair      string  `yaml:"pair"`
			Depth     int     `yaml:"depth"`
			WallRange float64 `yaml:"wall_range"`
		} `yaml:"kraken"`
		CryptoCompare struct {
			BaseURL  string `yaml:"base_url"`
			Category string `yaml:"category"`
			Limit    int    `yaml:"limit"`
		} `yaml:"cryptocompare"`
		Polymarket struct {
			BaseURL string `yaml:"base_url"`
			TagSlug string `yaml:"tag_slug"`
			Limit   int    `yaml:"limit"`
		} `yaml:"polymarket"`
		Binance struct {
			Enabled        bool          `yaml:"enabled"`
			WebSocketURL   string        `yaml:"websocket_url"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"binance"`
	} `yaml:"sources"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Refresh.Interval = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("OKX_BASE_URL"); v != "" {
		c.Sources.OKX.BaseURL = v
	}
	if v := os.Getenv("BINANCE_WS_URL"); v != "" {
		c.Sources.Binance.WebSocketURL = v
	}

	return c, nil
}

// applyDefaults fills zero-valued fields with the defaults the signal engine
// was calibrated with.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 45 * time.Second
	}
	if c.Refresh.SourceTimeout == 0 {
		c.Refresh.SourceTimeout = 10 * time.Second
	}
	if c.Refresh.HistorySize == 0 {
		c.Refresh.HistorySize = 50
	}

	e := &c.Engine
	if e.UpThreshold == 0 {
		e.UpThreshold = 0.3
	}
	if e.DownThreshold == 0 {
		e.DownThreshold = 0.3
	}
	if e.Weights.Funding == 0 {
		e.Weights.Funding = 1.5
	}
	if e.Weights.Liquidations == 0 {
		e.Weights.Liquidations = 1.5
	}
	if e.Weights.OrderBook == 0 {
		e.Weights.OrderBook = 1.0
	}
	if e.Weights.LongShort == 0 {
		e.Weights.LongShort = 0.5
	}
	if e.Weights.News == 0 {
		e.Weights.News = 0.5
	}
	if e.FundingHigh == 0 {
		e.FundingHigh = 0.0001
	}
	if e.FundingLow == 0 {
		e.FundingLow = -0.0001
	}
	if e.LiqDominance == 0 {
		e.LiqDominance = 1.5
	}
	if e.WallBidStrong == 0 {
		e.WallBidStrong = 1.3
	}
	if e.WallAskStrong == 0 {
		e.WallAskStrong = 0.77
	}
	if e.LongShortHigh == 0 {
		e.LongShortHigh = 2.5
	}
	if e.LongShortLow == 0 {
		e.LongShortLow = 0.7
	}
	if e.NewsBand == 0 {
		e.NewsBand = 0.1
	}
	if e.MaxSharePrice == 0 {
		e.MaxSharePrice = 0.55
	}

	s := &c.Sources
	if s.OKX.BaseURL == "" {
		s.OKX.BaseURL = "https://www.okx.com"
	}
	if s.OKX.InstID == "" {
		s.OKX.InstID = "BTC-USDT-SWAP"
	}
	if s.OKX.Currency == "" {
		s.OKX.Currency = "BTC"
	}
	if s.OKX.RateCapacity == 0 {
		s.OKX.RateCapacity = 5
	}
	if s.OKX.RateRefill == 0 {
		s.OKX.RateRefill = 2
	}
	if s.Kraken.BaseURL == "" {
		s.Kraken.BaseURL = "https://api.kraken.com"
	}
	if s.Kraken.Pair == "" {
		s.Kraken.Pair = "XBTUSD"
	}
	if s.Kraken.Depth == 0 {
		s.Kraken.Depth = 100
	}
	if s.Kraken.WallRange == 0 {
		s.Kraken.WallRange = 0.01
	}
	if s.CryptoCompare.BaseURL == "" {
		s.CryptoCompare.BaseURL = "https://min-api.cryptocompare.com"
	}
	if s.CryptoCompare.Category == "" {
		s.CryptoCompare.Category = "BTC"
	}
	if s.CryptoCompare.Limit == 0 {
		s.CryptoCompare.Limit = 10
	}
	if s.Polymarket.BaseURL == "" {
		s.Polymarket.BaseURL = "https://gamma-api.polymarket.com"
	}
	if s.Polymarket.TagSlug == "" {
		s.Polymarket.TagSlug = "bitcoin"
	}
	if s.Polymarket.Limit == 0 {
		s.Polymarket.Limit = 100
	}
	if s.Binance.WebSocketURL == "" {
		s.Binance.WebSocketURL = "wss://stream.binance.com:9443/ws/btcusdt@trade"
	}
	if s.Binance.ReconnectDelay == 0 {
		s.Binance.ReconnectDelay = 5 * time.Second
	}
	if s.Binance.PingInterval == 0 {
		s.Binance.PingInterval = 30 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh.interval must be at least 1s, got %s", c.Refresh.Interval)
	}
	if c.Refresh.SourceTimeout >= c.Refresh.Interval {
		return fmt.Errorf("refresh.source_timeout (%s) must be shorter than refresh.interval (%s)",
			c.Refresh.SourceTimeout, c.Refresh.Interval)
	}
	if c.Refresh.HistorySize <= 0 {
		return fmt.Errorf("refresh.history_size must be positive, got %d", c.Refresh.HistorySize)
	}
	if c.Engine.UpThreshold <= 0 || c.Engine.UpThreshold > 1 {
		return fmt.Errorf("engine.up_threshold must be in (0,1], got %v", c.Engine.UpThreshold)
	}
	if c.Engine.DownThreshold <= 0 || c.Engine.DownThreshold > 1 {
		return fmt.Errorf("engine.down_threshold must be in (0,1], got %v", c.Engine.DownThreshold)
	}
	if c.Engine.FundingHigh <= 0 {
		return fmt.Errorf("engine.funding_high must be positive, got %v", c.Engine.FundingHigh)
	}
	if c.Engine.FundingLow >= 0 {
		return fmt.Errorf("engine.funding_low must be negative, got %v", c.Engine.FundingLow)
	}
	return nil
}
