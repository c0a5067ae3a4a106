package valuation

import (
	"log/slog"
	"math"
	"sort"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// marketBlendThreshold is the relative divergence at which a supplied market
// value is blended into the computed value.
const marketBlendThreshold = 0.10

const (
	computedBlendWeight = 0.6
	marketBlendWeight   = 0.4
)

// Engine prices aggregated projections in auction dollars using the
// discretionary-budget VBD method. An Engine is immutable after construction
// and safe for concurrent Valuate calls.
type Engine struct {
	settings domain.LeagueSettings
	logger   *slog.Logger
}

// NewEngine creates an engine for one league configuration.
func NewEngine(settings domain.LeagueSettings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{settings: settings, logger: logger}
}

// PoolContext holds the pool-wide quantities every valuation shares: position
// ranks, replacement baselines, and the league dollars-per-VBD rate. Build it
// once per run from the full aggregated pool, then read-only.
type PoolContext struct {
	ranks         map[string]int // player ID -> 1-based position rank
	replacement   map[domain.Position]float64
	dollarsPerVBD float64
}

// Rank returns the position rank for a player, or 0 when the player is not
// in the pool the context was built from.
func (c *PoolContext) Rank(playerID string) int {
	return c.ranks[playerID]
}

// ReplacementPoints returns the replacement baseline for a position.
func (c *PoolContext) ReplacementPoints(pos domain.Position) float64 {
	return c.replacement[pos]
}

// DollarsPerVBD returns the league-wide conversion rate from value over
// replacement to discretionary dollars.
func (c *PoolContext) DollarsPerVBD() float64 {
	return c.dollarsPerVBD
}

// NewPoolContext precomputes ranks, replacement points, and the dollars-per-
// VBD rate from the full aggregated pool. Ranking is by projected points
// descending with canonical name as the deterministic tie-break.
func (e *Engine) NewPoolContext(pool []*domain.AggregatedProjection) *PoolContext {
	byPos := make(map[domain.Position][]*domain.AggregatedProjection)
	for _, agg := range pool {
		byPos[agg.Position] = append(byPos[agg.Position], agg)
	}

	ctx := &PoolContext{
		ranks:       make(map[string]int, len(pool)),
		replacement: make(map[domain.Position]float64, len(byPos)),
	}

	totalVBD := 0.0
	for pos, aggs := range byPos {
		sort.Slice(aggs, func(i, j int) bool {
			if aggs[i].ProjectedPoints != aggs[j].ProjectedPoints {
				return aggs[i].ProjectedPoints > aggs[j].ProjectedPoints
			}
			return aggs[i].PlayerName < aggs[j].PlayerName
		})
		for i, agg := range aggs {
			ctx.ranks[agg.PlayerID] = i + 1
		}

		// Replacement baseline: the player at the configured rank, or the
		// worst available player when the pool is thinner than that.
		repRank := replacementRank[pos]
		idx := repRank - 1
		if idx >= len(aggs) {
			idx = len(aggs) - 1
		}
		rep := aggs[idx].ProjectedPoints
		ctx.replacement[pos] = rep

		cut := rosterableCut[pos]
		for i, agg := range aggs {
			if i >= cut {
				break
			}
			if vbd := agg.ProjectedPoints - rep; vbd > 0 {
				totalVBD += vbd
			}
		}
	}

	discretionary := float64(e.settings.TotalBudget() - e.settings.TotalRosterSpots())
	if totalVBD > 0 {
		ctx.dollarsPerVBD = discretionary / totalVBD
	}

	e.logger.Debug("pool context built",
		slog.Int("players", len(pool)),
		slog.Float64("dollars_per_vbd", ctx.dollarsPerVBD))
	return ctx
}

// Valuate prices one player against a prepared pool context. market is the
// optional external auction value; pass nil when no market data exists.
func (e *Engine) Valuate(identity *domain.PlayerIdentity, agg *domain.AggregatedProjection, ctx *PoolContext, market *float64) *domain.ValuationResult {
	pos := agg.Position
	rank := ctx.Rank(agg.PlayerID)
	rep := ctx.ReplacementPoints(pos)

	vbd := agg.ProjectedPoints - rep
	if vbd < 0 {
		vbd = 0
	}

	base := 1 + vbd*ctx.DollarsPerVBD()
	mktAdj := marketAdjustment[pos]
	tierAdj := tierAdjustment(pos, rank)

	value := roundDollars(base * mktAdj * tierAdj)

	if market != nil && *market > 0 {
		divergence := math.Abs(float64(value)-*market) / *market
		if divergence >= marketBlendThreshold {
			value = roundDollars(computedBlendWeight*float64(value) + marketBlendWeight**market)
		}
	}

	if ceiling, ok := positionCap[pos]; ok && value > ceiling {
		value = ceiling
	}

	result := &domain.ValuationResult{
		PlayerID:             agg.PlayerID,
		PlayerName:           agg.PlayerName,
		Position:             pos,
		Team:                 identity.Team,
		ProjectedPoints:      agg.ProjectedPoints,
		PositionRank:         rank,
		ReplacementPoints:    rep,
		ValueOverReplacement: vbd,
		BaseValue:            base,
		MarketAdjustment:     mktAdj,
		TierAdjustment:       tierAdj,
		AuctionValue:         value,
		Confidence:           valuationConfidence(rank, identity.Age, market != nil),
	}
	SetBids(result)
	return result
}

// ValuatePool values the whole pool in deterministic order: auction value
// descending, then player name. markets maps player ID to an external value.
func (e *Engine) ValuatePool(identities map[string]*domain.PlayerIdentity, pool []*domain.AggregatedProjection, markets map[string]float64) []*domain.ValuationResult {
	ctx := e.NewPoolContext(pool)

	out := make([]*domain.ValuationResult, 0, len(pool))
	for _, agg := range pool {
		identity := identities[agg.PlayerID]
		if identity == nil {
			e.logger.Warn("aggregated projection without identity skipped",
				slog.String("player", agg.PlayerName))
			continue
		}
		var market *float64
		if m, ok := markets[agg.PlayerID]; ok {
			market = &m
		}
		out = append(out, e.Valuate(identity, agg, ctx, market))
	}
	SortResults(out)
	return out
}

// SortResults orders results by auction value descending, then player name.
func SortResults(results []*domain.ValuationResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].AuctionValue != results[j].AuctionValue {
			return results[i].AuctionValue > results[j].AuctionValue
		}
		return results[i].PlayerName < results[j].PlayerName
	})
}

// SetBids derives the bid band from the auction value. Called again by
// anything that rewrites AuctionValue after valuation.
func SetBids(r *domain.ValuationResult) {
	r.TargetBid = r.AuctionValue
	r.MaxBid = roundDollars(float64(r.AuctionValue) * 1.15)
	r.MinBid = roundDollars(float64(r.AuctionValue) * 0.85)
}

// valuationConfidence scores how trustworthy one dollar figure is: better
// position ranks and market corroboration raise it, advanced age lowers it.
func valuationConfidence(rank, age int, hasMarket bool) float64 {
	conf := 0.75
	switch {
	case rank >= 1 && rank <= 3:
		conf += 0.15
	case rank >= 1 && rank <= 8:
		conf += 0.10
	case rank >= 1 && rank <= 16:
		conf += 0.05
	}
	switch {
	case age >= 33:
		conf -= 0.10
	case age >= 30:
		conf -= 0.05
	}
	if hasMarket {
		conf += 0.10
	}
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < 0.5 {
		conf = 0.5
	}
	return conf
}

// roundDollars rounds to whole dollars with a $1 floor.
func roundDollars(v float64) int {
	d := int(math.Round(v))
	if d < 1 {
		return 1
	}
	return d
}
