// Package main runs the live market feed consumer. It maintains the latest
// quote per player and serves them over HTTP alongside Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/giraffingoutloud/fftool/internal/config"
	"github.com/giraffingoutloud/fftool/internal/ingestion"
	"github.com/giraffingoutloud/fftool/internal/observability"
)

func main() {
	feedURL := flag.String("feed-url", "", "Market feed websocket endpoint (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for /metrics and /quotes (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *feedURL == "" {
		*feedURL = cfg.FeedURL
	}
	if *metricsAddr == "" {
		*metricsAddr = cfg.MetricsAddr
	}
	if *feedURL == "" {
		fmt.Fprintln(os.Stderr, "--feed-url or FFTOOL_FEED_URL is required")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	metrics := observability.NewMetrics("fftool")
	table := ingestion.NewQuoteTable()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
		cancel()
	}()

	feed, err := ingestion.NewFeed(ctx, *feedURL, table, metrics, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Feed connect error: %v\n", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/quotes", func(w http.ResponseWriter, r *http.Request) {
		quotes := table.All()
		sort.Slice(quotes, func(i, j int) bool {
			if quotes[i].Name != quotes[j].Name {
				return quotes[i].Name < quotes[j].Name
			}
			return quotes[i].Team < quotes[j].Team
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(quotes)
	})

	server := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		fmt.Printf("Serving /metrics and /quotes on %s\n", *metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	<-ctx.Done()

	if err := feed.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Feed close error: %v\n", err)
	}
	server.Shutdown(context.Background())
	fmt.Printf("Feed stopped with %d quotes held\n", table.Len())
}
