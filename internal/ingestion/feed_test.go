package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func ptr(v float64) *float64 { return &v }

func TestFeed_ReceivesQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		quote := MarketQuote{
			Name:         "Justin Jefferson",
			Team:         "MIN",
			Position:     "WR",
			AuctionValue: ptr(52),
		}
		if err := conn.WriteJSON(quote); err != nil {
			t.Errorf("write quote: %v", err)
			return
		}

		// Keep connection open
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	table := NewQuoteTable()
	feed, err := NewFeed(context.Background(), wsURL, table, nil, nil)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	defer feed.Close()

	deadline := time.After(2 * time.Second)
	for table.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("no quote received before deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	q, ok := table.Get("Justin Jefferson", "MIN", "WR")
	if !ok {
		t.Fatal("quote not stored")
	}
	if q.AuctionValue == nil || *q.AuctionValue != 52 {
		t.Errorf("AuctionValue = %v, want 52", q.AuctionValue)
	}
	if q.UpdatedAt == 0 {
		t.Error("UpdatedAt not stamped")
	}
}

func TestFeed_DropsMalformedMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
		_ = conn.WriteJSON(MarketQuote{Name: "Bijan Robinson", Team: "ATL", Position: "RB", AuctionValue: ptr(58)})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	table := NewQuoteTable()
	feed, err := NewFeed(context.Background(), wsURL, table, nil, nil)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	defer feed.Close()

	deadline := time.After(2 * time.Second)
	for table.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("valid quote after malformed message never arrived")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if _, ok := table.Get("Bijan Robinson", "ATL", "RB"); !ok {
		t.Error("valid quote not stored")
	}
}

func TestFeed_ReconnectClosesPreviousConnection(t *testing.T) {
	firstClosed := make(chan struct{})
	var connCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}

		if connCount.Add(1) == 1 {
			// Stay silent so the client's read deadline expires and it
			// reconnects. The replaced connection must be closed on the
			// client side, which surfaces here as a read error.
			if _, _, err := conn.ReadMessage(); err != nil {
				close(firstClosed)
			}
			conn.Close()
			return
		}

		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	table := NewQuoteTable()
	cfg := FeedConfig{
		ReconnectDelay:    10 * time.Millisecond,
		MaxReconnectDelay: 100 * time.Millisecond,
		ReadTimeout:       100 * time.Millisecond,
		HandshakeTimeout:  time.Second,
	}
	feed, err := NewFeedWithConfig(context.Background(), wsURL, table, nil, nil, &cfg)
	if err != nil {
		t.Fatalf("NewFeedWithConfig: %v", err)
	}
	defer feed.Close()

	select {
	case <-firstClosed:
	case <-time.After(2 * time.Second):
		t.Fatal("replaced connection never closed")
	}
}

func TestQuoteTable_LatestWriteWins(t *testing.T) {
	table := NewQuoteTable()
	table.Put(MarketQuote{Name: "Justin Jefferson", Team: "MIN", Position: "WR", AuctionValue: ptr(50)})
	table.Put(MarketQuote{Name: "Justin Jefferson", Team: "MIN", Position: "WR", AuctionValue: ptr(55)})

	q, ok := table.Get("Justin Jefferson", "MIN", "WR")
	if !ok {
		t.Fatal("quote not stored")
	}
	if *q.AuctionValue != 55 {
		t.Errorf("AuctionValue = %f, want 55", *q.AuctionValue)
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}
