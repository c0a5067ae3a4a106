// Package aggregation merges per-source projections into one trustworthy
// estimate per player.
package aggregation

import (
	"log/slog"
	"sort"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// Confidence blend weights for multi-source aggregation.
const (
	sourceCountWeight = 0.3
	coverageWeight    = 0.4
	consistencyWeight = 0.3
)

// DefaultMinConfidence is the floor below which a player is excluded from
// aggregated output as insufficient evidence.
const DefaultMinConfidence = 0.3

// DefaultMinMatchConfidence is the identity-match floor for admitting a
// source hit. Fuzzy and cross-team matches resolve below it, so a
// misattributed record can never contaminate another player's projection.
const DefaultMinMatchConfidence = 0.9

// Aggregator merges weighted source projections per player. Construct one
// per run; it is not safe for concurrent Aggregate calls against the same
// Excluded map.
type Aggregator struct {
	MinSources    int
	MinConfidence float64

	// MinMatchConfidence drops individual hits whose identity match scored
	// below it before any aggregation math runs.
	MinMatchConfidence float64

	// Excluded records players dropped from aggregated output, keyed by
	// player ID with the human-readable reason. Exclusions are data quality
	// signals, not errors.
	Excluded map[string]string

	logger *slog.Logger
}

// NewAggregator creates an aggregator requiring at least minSources hits per
// player and the default confidence floor.
func NewAggregator(minSources int, logger *slog.Logger) *Aggregator {
	if minSources < 1 {
		minSources = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		MinSources:         minSources,
		MinConfidence:      DefaultMinConfidence,
		MinMatchConfidence: DefaultMinMatchConfidence,
		Excluded:           make(map[string]string),
		logger:             logger,
	}
}

// Aggregate merges the projections for one player. Hits whose identity match
// scored below MinMatchConfidence are dropped first. Returns nil when fewer
// than MinSources admitted hits remain, or when the resulting confidence
// falls below MinConfidence; either way the reason is recorded in Excluded.
func (a *Aggregator) Aggregate(player *domain.PlayerIdentity, hits []*domain.SourceProjection) *domain.AggregatedProjection {
	hits = a.admitted(player, hits)
	if len(hits) < a.MinSources {
		a.exclude(player, "insufficient sources")
		return nil
	}

	values := make([]float64, len(hits))
	weights := make([]float64, len(hits))
	sources := make([]string, len(hits))
	weightSum := 0.0
	for i, h := range hits {
		values[i] = h.ProjectedPoints
		weights[i] = h.Weight
		sources[i] = h.SourceName
		weightSum += h.Weight
	}
	sort.Strings(sources)

	points := weightedMean(values, weights)
	confidence := blendConfidence(len(hits), weightSum, values)

	if confidence < a.MinConfidence {
		a.exclude(player, "confidence below minimum")
		return nil
	}

	agg := &domain.AggregatedProjection{
		PlayerID:          player.PlayerID,
		PlayerName:        player.CanonicalName,
		Position:          player.Position,
		ProjectedPoints:   points,
		Confidence:        confidence,
		StandardDeviation: sampleStddev(values),
		SourcesUsed:       sources,
	}

	if len(hits) == 1 {
		agg.FloorPoints = values[0] * 0.85
		agg.CeilingPoints = values[0] * 1.15
	} else {
		agg.FloorPoints = percentile(values, 0.25)
		agg.CeilingPoints = percentile(values, 0.75)
	}
	return agg
}

// AggregateAll aggregates every player with at least one hit, returning
// results sorted by player name for deterministic downstream iteration.
func (a *Aggregator) AggregateAll(players []*domain.PlayerIdentity, bySource map[string][]*domain.SourceProjection) []*domain.AggregatedProjection {
	hitsByPlayer := make(map[string][]*domain.SourceProjection)
	sourceNames := make([]string, 0, len(bySource))
	for name := range bySource {
		sourceNames = append(sourceNames, name)
	}
	sort.Strings(sourceNames)
	for _, name := range sourceNames {
		for _, p := range bySource[name] {
			hitsByPlayer[p.PlayerID] = append(hitsByPlayer[p.PlayerID], p)
		}
	}

	out := make([]*domain.AggregatedProjection, 0, len(players))
	for _, player := range players {
		hits := hitsByPlayer[player.PlayerID]
		if len(hits) == 0 {
			// A player appearing in zero sources is excluded outright, never
			// emitted with zero points.
			a.exclude(player, "no source hits")
			continue
		}
		if agg := a.Aggregate(player, hits); agg != nil {
			out = append(out, agg)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// admitted filters out hits from identity matches too weak to trust. The
// caller's slice is never mutated.
func (a *Aggregator) admitted(player *domain.PlayerIdentity, hits []*domain.SourceProjection) []*domain.SourceProjection {
	out := make([]*domain.SourceProjection, 0, len(hits))
	for _, h := range hits {
		if h.MatchConfidence < a.MinMatchConfidence {
			a.logger.Info("low-confidence hit dropped",
				slog.String("player", player.CanonicalName),
				slog.String("source", h.SourceName),
				slog.Float64("match_confidence", h.MatchConfidence))
			continue
		}
		out = append(out, h)
	}
	return out
}

func (a *Aggregator) exclude(player *domain.PlayerIdentity, reason string) {
	a.Excluded[player.PlayerID] = reason
	a.logger.Info("player excluded from aggregation",
		slog.String("player", player.CanonicalName),
		slog.String("position", string(player.Position)),
		slog.String("reason", reason))
}

// blendConfidence computes the aggregation confidence score.
// With two or more hits:
//
//	0.3*min(1, hits/3) + 0.4*min(1, sum(weights)) + 0.3*max(0, 1-CV)
//
// With a single hit the consistency term is unavailable and the remaining
// terms are weighted evenly.
func blendConfidence(hits int, weightSum float64, values []float64) float64 {
	sourceCount := float64(hits) / 3.0
	if sourceCount > 1 {
		sourceCount = 1
	}
	coverage := weightSum
	if coverage > 1 {
		coverage = 1
	}

	if hits < 2 {
		return 0.5*sourceCount + 0.5*coverage
	}

	consistency := 1 - coefficientOfVariation(values)
	if consistency < 0 {
		consistency = 0
	}
	return sourceCountWeight*sourceCount + coverageWeight*coverage + consistencyWeight*consistency
}
