package valuation

import "github.com/giraffingoutloud/fftool/internal/domain"

// replacementRank is the position rank whose projected points define the
// replacement baseline. Calibrated for a 12-team league.
var replacementRank = map[domain.Position]int{
	domain.PositionQB:  15,
	domain.PositionRB:  48,
	domain.PositionWR:  60,
	domain.PositionTE:  18,
	domain.PositionDST: 14,
	domain.PositionK:   13,
}

// rosterableCut bounds the per-position pool that shares the discretionary
// budget. Players ranked below the cut never dilute dollarsPerVBD.
var rosterableCut = map[domain.Position]int{
	domain.PositionQB:  24,
	domain.PositionRB:  60,
	domain.PositionWR:  72,
	domain.PositionTE:  24,
	domain.PositionDST: 16,
	domain.PositionK:   16,
}

// marketAdjustment corrects for historical auction-market deviation from raw
// VBD pricing: the market pays up for running backs and pays almost nothing
// for kickers and defenses regardless of point totals.
var marketAdjustment = map[domain.Position]float64{
	domain.PositionQB:  0.90,
	domain.PositionRB:  1.15,
	domain.PositionWR:  1.00,
	domain.PositionTE:  0.95,
	domain.PositionDST: 0.50,
	domain.PositionK:   0.45,
}

// positionCap is the hard per-position dollar ceiling. A single corrupt
// projection upstream cannot produce a valuation past the cap.
var positionCap = map[domain.Position]int{
	domain.PositionQB:  40,
	domain.PositionRB:  85,
	domain.PositionWR:  80,
	domain.PositionTE:  45,
	domain.PositionDST: 8,
	domain.PositionK:   5,
}

// Tier is a rank band within a position.
type Tier string

const (
	TierElite       Tier = "elite"
	Tier1           Tier = "tier1"
	Tier2           Tier = "tier2"
	Tier3           Tier = "tier3"
	Tier4           Tier = "tier4"
	TierReplacement Tier = "replacement"
)

// tierMultiplier is the global rank-band multiplier.
var tierMultiplier = map[Tier]float64{
	TierElite:       1.20,
	Tier1:           1.10,
	Tier2:           1.00,
	Tier3:           0.95,
	Tier4:           0.90,
	TierReplacement: 0.85,
}

// TierFor maps a 1-based position rank to its band.
func TierFor(rank int) Tier {
	switch {
	case rank <= 3:
		return TierElite
	case rank <= 8:
		return Tier1
	case rank <= 16:
		return Tier2
	case rank <= 24:
		return Tier3
	case rank <= 36:
		return Tier4
	default:
		return TierReplacement
	}
}

// positionTierAdjustment layers a position-specific factor on the global
// band: elite QB production is replaceable enough to discount, elite TE
// scarcity commands a premium.
func positionTierAdjustment(pos domain.Position, tier Tier) float64 {
	if tier != TierElite {
		return 1.0
	}
	switch pos {
	case domain.PositionQB:
		return 0.90
	case domain.PositionTE:
		return 1.05
	default:
		return 1.0
	}
}

// tierAdjustment is the combined multiplier for one player's rank.
func tierAdjustment(pos domain.Position, rank int) float64 {
	tier := TierFor(rank)
	return tierMultiplier[tier] * positionTierAdjustment(pos, tier)
}
