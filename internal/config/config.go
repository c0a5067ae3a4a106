// Package config defines pipeline configuration and its layered loading.
package config

import (
	"github.com/giraffingoutloud/fftool/internal/domain"
)

// Config contains process configuration for the valuation pipeline.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Teams, Budget, and RosterSize describe the auction league.
	Teams      int `koanf:"teams"`
	Budget     int `koanf:"budget"`
	RosterSize int `koanf:"roster_size"`

	// ScoringMode selects the projection flavor: ppr, half-ppr, standard.
	ScoringMode string `koanf:"scoring_mode"`

	// SourceWeights maps projection source names to aggregation weights.
	SourceWeights map[string]float64 `koanf:"source_weights"`

	// MinSources is the minimum source hits required to aggregate a player.
	MinSources int `koanf:"min_sources"`

	// MinConfidence excludes aggregations scoring below it.
	MinConfidence float64 `koanf:"min_confidence"`

	// MaxQuarantineRatio fails a source load when too many rows quarantine.
	MaxQuarantineRatio float64 `koanf:"max_quarantine_ratio"`

	// PostgresDSN enables identity/valuation persistence when set.
	PostgresDSN string `koanf:"postgres_dsn"`

	// ClickhouseDSN enables dated valuation snapshots when set.
	ClickhouseDSN string `koanf:"clickhouse_dsn"`

	// FeedURL is the websocket endpoint for live market quotes.
	FeedURL string `koanf:"feed_url"`

	// MetricsAddr is the prometheus exposition listen address.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns a Config with defaults for a standard 12-team PPR league.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Teams:       12,
		Budget:      200,
		RosterSize:  16,
		ScoringMode: "ppr",
		SourceWeights: map[string]float64{
			"fantasypros": 0.40,
			"cbs":         0.35,
			"espn":        0.25,
		},
		MinSources:         1,
		MinConfidence:      0.3,
		MaxQuarantineRatio: 0.10,
		MetricsAddr:        ":9090",
	}
}

// LeagueSettings converts the flat config into domain league settings,
// keeping the standard starter layout.
func (c *Config) LeagueSettings() domain.LeagueSettings {
	s := domain.DefaultLeagueSettings()
	s.Teams = c.Teams
	s.Budget = c.Budget
	s.RosterSize = c.RosterSize
	s.ScoringMode = c.ScoringMode
	return s
}
