// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RecordsLoaded      *prometheus.CounterVec
	RecordsQuarantined *prometheus.CounterVec
	FeedQuotesReceived prometheus.Counter
	FeedReconnects     prometheus.Counter

	// Resolution metrics
	MatchesByKind      *prometheus.CounterVec
	ProvisionalPlayers prometheus.Counter

	// Pipeline metrics
	PlayersExcluded   *prometheus.CounterVec
	PlayersValued     prometheus.Gauge
	RescalesApplied   prometheus.Counter
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fftool"
	}

	return &Metrics{
		RecordsLoaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_loaded_total",
			Help:      "Total number of raw records loaded per source",
		}, []string{"source"}),
		RecordsQuarantined: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_quarantined_total",
			Help:      "Total number of raw records quarantined per source",
		}, []string{"source"}),
		FeedQuotesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "quotes_received_total",
			Help:      "Total number of market quote messages received",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of websocket reconnect attempts",
		}),
		MatchesByKind: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "matches_total",
			Help:      "Total number of identity matches by match kind",
		}, []string{"kind"}),
		ProvisionalPlayers: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "provisional_players_total",
			Help:      "Total number of provisional identities synthesized",
		}),
		PlayersExcluded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "players_excluded_total",
			Help:      "Total number of players excluded from aggregation by reason",
		}, []string{"reason"}),
		PlayersValued: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "players_valued",
			Help:      "Number of players valued in the last pipeline run",
		}),
		RescalesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rescales_applied_total",
			Help:      "Total number of budget-conservation rescales applied",
		}),
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "phase_duration_seconds",
			Help:      "Duration of pipeline phases in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
