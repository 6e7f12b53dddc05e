package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"BtcPulse/internal/domain/repository"
	"BtcPulse/pkg/logger"
)

// Stream keeps a live BTC spot price from the Binance trade stream. The last
// seen price is stored atomically so the refresh coordinator can read it
// without blocking. The stream is optional; when disconnected, callers fall
// back to the exchange snapshot price.
type Stream struct {
	log            *logger.Logger
	url            string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool
	price     atomic.Uint64 // math.Float64bits; zero means no trade seen yet
}

func New(log *logger.Logger, url string, reconnectDelay, pingInterval time.Duration) repository.PriceStream {
	return &Stream{
		log:            log.With(logger.String("stream", "binance")),
		url:            url,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.connected.Store(true)
	s.log.Info("connected", logger.String("url", s.url))
	return nil
}

type tradeEvent struct {
	Event string `json:"e"`
	Price string `json:"p"`
}

// Start runs the read and ping loops until ctx is cancelled, reconnecting
// after read failures. Call in a goroutine after Connect.
func (s *Stream) Start(ctx context.Context) {
	go s.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn := s.current()
		if conn == nil {
			if !s.reconnect(ctx) {
				return
			}
			continue
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("read failed, reconnecting", logger.Error(err))
			s.connected.Store(false)
			if !s.reconnect(ctx) {
				return
			}
			continue
		}

		var ev tradeEvent
		if err := json.Unmarshal(b, &ev); err != nil || ev.Event != "trade" {
			continue
		}
		price, err := strconv.ParseFloat(ev.Price, 64)
		if err != nil || price <= 0 {
			continue
		}
		s.price.Store(math.Float64bits(price))
	}
}

// LastPrice returns the most recent trade price, if any trade was seen.
func (s *Stream) LastPrice() (float64, bool) {
	bits := s.price.Load()
	if bits == 0 {
		return 0, false
	}
	return math.Float64frombits(bits), true
}

func (s *Stream) IsConnected() bool { return s.connected.Load() }

// Close shuts the connection down. Safe to call more than once.
func (s *Stream) Close() error {
	s.connected.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Stream) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Stream) reconnect(ctx context.Context) bool {
	_ = s.Close()
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.reconnectDelay):
	}
	if err := s.Connect(ctx); err != nil {
		s.log.Warn("reconnect failed", logger.Error(err))
		return ctx.Err() == nil
	}
	return true
}

func (s *Stream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if conn := s.current(); conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}
