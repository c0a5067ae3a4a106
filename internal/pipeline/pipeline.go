// Package pipeline wires identity resolution, projection aggregation,
// valuation, and validation into the end-to-end batch run.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/giraffingoutloud/fftool/internal/aggregation"
	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/identity"
	"github.com/giraffingoutloud/fftool/internal/ingestion"
	"github.com/giraffingoutloud/fftool/internal/normalize"
	"github.com/giraffingoutloud/fftool/internal/observability"
	"github.com/giraffingoutloud/fftool/internal/valuation"
	"github.com/giraffingoutloud/fftool/internal/validation"
)

// Options configures a pipeline run.
type Options struct {
	// SourceWeights maps source names to aggregation weights in (0, 1].
	// Sources absent from the map are ignored.
	SourceWeights map[string]float64

	// MinSources is the minimum source hits required to aggregate a player.
	MinSources int

	// MinConfidence overrides the aggregation confidence floor when > 0.
	MinConfidence float64

	// Quotes supplies live market values; nil disables the feed overlay.
	Quotes *ingestion.QuoteTable

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics

	Logger *slog.Logger
}

// Pipeline is the single end-to-end valuation run. Construct one per run;
// it owns its resolver and aggregator state.
type Pipeline struct {
	settings domain.LeagueSettings
	opts     Options

	resolver   *identity.Resolver
	aggregator *aggregation.Aggregator
	engine     *valuation.Engine
	checker    *validation.Checker
	logger     *slog.Logger

	projections []*domain.SourceProjection
}

// New creates a pipeline for one league configuration.
func New(settings domain.LeagueSettings, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	minSources := opts.MinSources
	if minSources < 1 {
		minSources = 1
	}

	aggregator := aggregation.NewAggregator(minSources, logger)
	if opts.MinConfidence > 0 {
		aggregator.MinConfidence = opts.MinConfidence
	}

	return &Pipeline{
		settings:   settings,
		opts:       opts,
		resolver:   identity.NewResolver(normalize.NewAliasTable()),
		aggregator: aggregator,
		engine:     valuation.NewEngine(settings, logger),
		checker:    validation.NewChecker(settings, logger),
		logger:     logger,
	}
}

// ResolveIdentity runs the matching ladder for one raw triple.
func (p *Pipeline) ResolveIdentity(name, team, position string) identity.MatchResult {
	res := p.resolver.FindBestMatch(name, team, position)
	if p.opts.Metrics != nil {
		p.opts.Metrics.MatchesByKind.WithLabelValues(string(res.MatchKind)).Inc()
	}
	return res
}

// Identities returns every canonical identity known to the run, sorted by
// player ID. Valid after AggregateAndValuate.
func (p *Pipeline) Identities() []*domain.PlayerIdentity {
	return p.resolver.Identities()
}

// Projections returns every per-source projection the run produced, ordered
// by source weight descending and player ID within a source. Valid after
// AggregateAndValuate.
func (p *Pipeline) Projections() []*domain.SourceProjection {
	return p.projections
}

// Exclusions reports the players dropped during aggregation, keyed by
// canonical name. Valid after AggregateAndValuate.
func (p *Pipeline) Exclusions() map[string]string {
	out := make(map[string]string, len(p.aggregator.Excluded))
	for playerID, reason := range p.aggregator.Excluded {
		if ident := p.resolver.GetByID(playerID); ident != nil {
			out[ident.CanonicalName] = reason
		}
	}
	return out
}

// AggregateAndValuate runs the full batch: identity resolution over every
// source record, weighted aggregation, per-position valuation, and the
// single global budget rescale. Output ordering is deterministic: auction
// value descending, then player name.
func (p *Pipeline) AggregateAndValuate(rawRecordsBySource map[string][]domain.RawRecord) ([]*domain.ValuationResult, error) {
	sources := p.orderedSources(rawRecordsBySource)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources with configured weights")
	}

	// The highest-weighted source anchors the canonical identity space;
	// every other source resolves against it through the ladder.
	if err := p.registerAnchor(sources[0], rawRecordsBySource[sources[0]]); err != nil {
		return nil, err
	}

	hitsBySource := make(map[string][]*domain.SourceProjection, len(sources))
	marketSamples := make(map[string][]weightedValue)

	for _, source := range sources {
		weight := p.opts.SourceWeights[source]
		for _, rec := range rawRecordsBySource[source] {
			res, created, err := p.resolveRecord(rec)
			if err != nil {
				// An unusable record is rejected on its own; it never costs
				// the rest of the run.
				p.logger.Warn("record rejected",
					slog.String("source", source),
					slog.String("name", rec.Name),
					slog.String("error", err.Error()))
				continue
			}
			ident := res.Identity

			if res.TeamMismatch {
				team := normalize.NormalizeTeam(rec.Team)
				if team != domain.TeamFreeAgent && team != ident.Team {
					// Confirmed trade evidence: most recent source wins.
					if err := p.resolver.UpdateTeam(ident.PlayerID, team); err == nil {
						p.logger.Info("player team updated",
							slog.String("player", ident.CanonicalName),
							slog.String("team", team))
					}
				}
			}

			// A freshly minted identity is attributed with certainty: the
			// record defined it. Matches against existing identities carry
			// the ladder's confidence, and the aggregator drops any hit
			// below its match floor.
			matchConf := res.Confidence
			if created {
				matchConf = 1.0
			}

			if rec.ProjectedPoints != nil {
				hitsBySource[source] = append(hitsBySource[source], &domain.SourceProjection{
					SourceName:      source,
					Weight:          weight,
					PlayerID:        ident.PlayerID,
					ProjectedPoints: *rec.ProjectedPoints,
					MatchConfidence: matchConf,
					Stats:           rec.Stats,
				})
			}
			if rec.AuctionValue != nil && matchConf >= aggregation.DefaultMinMatchConfidence {
				marketSamples[ident.PlayerID] = append(marketSamples[ident.PlayerID],
					weightedValue{value: *rec.AuctionValue, weight: weight})
			}
		}
	}

	p.projections = flattenHits(sources, hitsBySource)

	pool := p.aggregator.AggregateAll(p.resolver.Identities(), hitsBySource)
	if p.opts.Metrics != nil {
		for _, reason := range p.aggregator.Excluded {
			p.opts.Metrics.PlayersExcluded.WithLabelValues(reason).Inc()
		}
	}

	markets := p.marketValues(marketSamples)
	results := p.valuatePool(pool, markets)

	// The one global mutation: budget-conservation rescale over the full
	// pool, after every position has finished.
	report := p.checker.Apply(results)
	if report.RescaleFactor != 1.0 && p.opts.Metrics != nil {
		p.opts.Metrics.RescalesApplied.Inc()
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.PlayersValued.Set(float64(len(results)))
	}

	valuation.SortResults(results)
	return results, nil
}

// Validate reports on the budget and distribution invariants without
// mutating results. Callable separately for diagnostics.
func (p *Pipeline) Validate(results []*domain.ValuationResult) *validation.Report {
	return p.checker.Validate(results)
}

type weightedValue struct {
	value  float64
	weight float64
}

// orderedSources returns the weighted sources, heaviest first with name as
// tie-break, so registration and resolution order never depends on map
// iteration.
func (p *Pipeline) orderedSources(bySource map[string][]domain.RawRecord) []string {
	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		if w, ok := p.opts.SourceWeights[source]; ok && w > 0 {
			sources = append(sources, source)
		} else {
			p.logger.Warn("source without configured weight skipped", slog.String("source", source))
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		wi, wj := p.opts.SourceWeights[sources[i]], p.opts.SourceWeights[sources[j]]
		if wi != wj {
			return wi > wj
		}
		return sources[i] < sources[j]
	})
	return sources
}

// flattenHits collapses the per-source hit map into one deterministic slice:
// source order as given, player ID ascending within a source.
func flattenHits(sources []string, hitsBySource map[string][]*domain.SourceProjection) []*domain.SourceProjection {
	var out []*domain.SourceProjection
	for _, source := range sources {
		hits := hitsBySource[source]
		sort.Slice(hits, func(i, j int) bool { return hits[i].PlayerID < hits[j].PlayerID })
		out = append(out, hits...)
	}
	return out
}

// registerAnchor seeds the canonical identity space from one source.
func (p *Pipeline) registerAnchor(source string, records []domain.RawRecord) error {
	for _, rec := range records {
		age := 0
		if rec.Age != nil {
			age = *rec.Age
		}
		if _, _, err := p.resolver.Register(rec.Name, rec.Team, rec.Position, age); err != nil {
			p.logger.Warn("anchor record rejected",
				slog.String("source", source),
				slog.String("name", rec.Name),
				slog.String("error", err.Error()))
		}
	}
	p.logger.Info("identity space registered",
		slog.String("anchor", source),
		slog.Int("identities", len(p.resolver.Identities())))
	return nil
}

// resolveRecord runs the ladder for one record, synthesizing provisional
// identities so no data is silently dropped. The bool reports whether the
// identity was minted for this very record; an error means the record itself
// is unusable (empty name) and must be rejected, not the run.
func (p *Pipeline) resolveRecord(rec domain.RawRecord) (identity.MatchResult, bool, error) {
	pos := identity.NormalizePosition(rec.Position)

	if pos == domain.PositionDST {
		res, err := p.resolver.ResolveDefense(rec.Name, rec.Team)
		if err != nil {
			return res, false, err
		}
		p.countMatch(res)
		// Synthesized DST units come back provisional at confidence 0.5;
		// probe hits score 0.95 or better.
		created := res.Identity.IsProvisional && res.Confidence == 0.5
		return res, created, nil
	}

	res := p.ResolveIdentity(rec.Name, rec.Team, rec.Position)
	if res.MatchKind != identity.MatchNotFound {
		return res, false, nil
	}

	ident, err := p.resolver.CreateProvisionalPlayer(rec.Name, rec.Team, rec.Position)
	if err != nil {
		return res, false, err
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.ProvisionalPlayers.Inc()
	}
	p.logger.Info("provisional identity synthesized",
		slog.String("player", ident.CanonicalName),
		slog.String("position", string(ident.Position)))
	return identity.MatchResult{Identity: ident, Confidence: 0.5, MatchKind: identity.MatchNotFound}, true, nil
}

func (p *Pipeline) countMatch(res identity.MatchResult) {
	if p.opts.Metrics != nil {
		p.opts.Metrics.MatchesByKind.WithLabelValues(string(res.MatchKind)).Inc()
	}
}

// marketValues folds per-source auction values into one market value per
// player (weighted mean), then overlays any live feed quote.
func (p *Pipeline) marketValues(samples map[string][]weightedValue) map[string]float64 {
	markets := make(map[string]float64, len(samples))
	for playerID, vals := range samples {
		var sum, weightSum float64
		for _, wv := range vals {
			sum += wv.value * wv.weight
			weightSum += wv.weight
		}
		if weightSum > 0 {
			markets[playerID] = sum / weightSum
		}
	}

	if p.opts.Quotes == nil {
		return markets
	}
	quotes := p.opts.Quotes.All()
	// Deterministic overlay order regardless of table iteration.
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Name != quotes[j].Name {
			return quotes[i].Name < quotes[j].Name
		}
		if quotes[i].Team != quotes[j].Team {
			return quotes[i].Team < quotes[j].Team
		}
		return quotes[i].Position < quotes[j].Position
	})
	for _, q := range quotes {
		if q.AuctionValue == nil {
			continue
		}
		res := p.resolver.FindBestMatch(q.Name, q.Team, q.Position)
		if res.MatchKind == identity.MatchNotFound {
			continue
		}
		// Live quotes beat stale per-source columns.
		markets[res.Identity.PlayerID] = *q.AuctionValue
	}
	return markets
}

// valuatePool prices the aggregated pool, one goroutine per position. The
// pool context is built once over all positions; per-position work only
// reads it, so parallelism cannot change the output.
func (p *Pipeline) valuatePool(pool []*domain.AggregatedProjection, markets map[string]float64) []*domain.ValuationResult {
	ctx := p.engine.NewPoolContext(pool)

	byPos := make(map[domain.Position][]*domain.AggregatedProjection)
	for _, agg := range pool {
		byPos[agg.Position] = append(byPos[agg.Position], agg)
	}

	var mu sync.Mutex
	results := make([]*domain.ValuationResult, 0, len(pool))

	var wg sync.WaitGroup
	for _, aggs := range byPos {
		wg.Add(1)
		go func(aggs []*domain.AggregatedProjection) {
			defer wg.Done()
			local := make([]*domain.ValuationResult, 0, len(aggs))
			for _, agg := range aggs {
				ident := p.resolver.GetByID(agg.PlayerID)
				if ident == nil {
					continue
				}
				var market *float64
				if m, ok := markets[agg.PlayerID]; ok {
					market = &m
				}
				local = append(local, p.engine.Valuate(ident, agg, ctx, market))
			}
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
		}(aggs)
	}
	wg.Wait()

	valuation.SortResults(results)
	return results
}
