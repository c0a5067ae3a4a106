package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/giraffingoutloud/fftool/internal/observability"
)

// MarketQuote is one live market data point for a player.
type MarketQuote struct {
	Name         string   `json:"name"`
	Team         string   `json:"team"`
	Position     string   `json:"position"`
	ADP          *float64 `json:"adp,omitempty"`
	AuctionValue *float64 `json:"auction_value,omitempty"`
	UpdatedAt    int64    `json:"updated_at"`
}

// QuoteTable holds the latest market quote per raw (name, team, position)
// triple. Safe for concurrent use; the feed writes, the pipeline reads.
type QuoteTable struct {
	mu     sync.RWMutex
	quotes map[string]MarketQuote
}

// NewQuoteTable creates an empty quote table.
func NewQuoteTable() *QuoteTable {
	return &QuoteTable{quotes: make(map[string]MarketQuote)}
}

func quoteKey(name, team, position string) string {
	return name + "|" + team + "|" + position
}

// Put stores or replaces the quote for its player. Latest write wins.
func (t *QuoteTable) Put(q MarketQuote) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quotes[quoteKey(q.Name, q.Team, q.Position)] = q
}

// Get returns the latest quote for a player, if any.
func (t *QuoteTable) Get(name, team, position string) (MarketQuote, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	q, ok := t.quotes[quoteKey(name, team, position)]
	return q, ok
}

// All returns a snapshot of every stored quote.
func (t *QuoteTable) All() []MarketQuote {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]MarketQuote, 0, len(t.quotes))
	for _, q := range t.quotes {
		out = append(out, q)
	}
	return out
}

// Len returns the number of stored quotes.
func (t *QuoteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.quotes)
}

// FeedConfig configures market feed client behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration
}

// DefaultFeedConfig returns default market feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

// Feed consumes live market quote messages over websocket into a QuoteTable,
// reconnecting with exponential backoff on connection loss.
type Feed struct {
	endpoint string
	config   FeedConfig
	table    *QuoteTable
	metrics  *observability.Metrics
	logger   *slog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewFeed creates a feed client and connects to the endpoint.
func NewFeed(ctx context.Context, endpoint string, table *QuoteTable, metrics *observability.Metrics, logger *slog.Logger) (*Feed, error) {
	return NewFeedWithConfig(ctx, endpoint, table, metrics, logger, nil)
}

// NewFeedWithConfig creates a feed client with explicit behavior config.
func NewFeedWithConfig(ctx context.Context, endpoint string, table *QuoteTable, metrics *observability.Metrics, logger *slog.Logger, config *FeedConfig) (*Feed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Feed{
		endpoint: endpoint,
		config:   cfg,
		table:    table,
		metrics:  metrics,
		logger:   logger,
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	return f, nil
}

// connect establishes the websocket connection.
func (f *Feed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: f.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	// A reconnect replaces a dead-but-open connection; close it so the
	// socket is released.
	if f.conn != nil {
		_ = f.conn.Close()
	}
	f.conn = conn
	return nil
}

// readLoop reads quote messages until the feed closes, reconnecting on
// connection loss.
func (f *Feed) readLoop() {
	defer f.wg.Done()

	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if f.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.logger.Warn("market feed read failed", slog.String("error", err.Error()))
			if !f.reconnect() {
				return
			}
			continue
		}

		var quote MarketQuote
		if err := json.Unmarshal(msg, &quote); err != nil {
			f.logger.Warn("malformed quote message dropped", slog.String("error", err.Error()))
			continue
		}
		if quote.Name == "" {
			continue
		}
		if quote.UpdatedAt == 0 {
			quote.UpdatedAt = time.Now().UnixMilli()
		}

		f.table.Put(quote)
		if f.metrics != nil {
			f.metrics.FeedQuotesReceived.Inc()
		}
	}
}

// reconnect retries the connection with exponential backoff until it
// succeeds or the feed closes. Returns false when the feed closed.
func (f *Feed) reconnect() bool {
	delay := f.config.ReconnectDelay

	for {
		select {
		case <-f.done:
			return false
		case <-time.After(delay):
		}

		if f.metrics != nil {
			f.metrics.FeedReconnects.Inc()
		}

		ctx, cancel := context.WithTimeout(context.Background(), f.config.HandshakeTimeout)
		err := f.connect(ctx)
		cancel()
		if err == nil {
			f.logger.Info("market feed reconnected")
			return true
		}

		f.logger.Warn("market feed reconnect failed",
			slog.String("error", err.Error()),
			slog.Duration("next_attempt", delay))

		delay *= 2
		if delay > f.config.MaxReconnectDelay {
			delay = f.config.MaxReconnectDelay
		}
	}
}

// Close shuts the feed down and waits for the read loop to exit.
func (f *Feed) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	err := f.conn.Close()
	f.connMu.Unlock()

	f.wg.Wait()
	return err
}
