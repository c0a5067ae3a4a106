package domain

// ValuationResult is the calibrated dollar valuation for one player.
// Mutated exactly once more after creation, by the validation layer's
// optional global rescale.
type ValuationResult struct {
	PlayerID   string
	PlayerName string
	Position   Position
	Team       string

	ProjectedPoints      float64
	PositionRank         int     // 1-based rank by projected points within position
	ReplacementPoints    float64 // points of the player at the replacement rank
	ValueOverReplacement float64 // max(0, points - replacement), a.k.a. VBD

	BaseValue        float64 // 1 + VBD * dollarsPerVBD, before adjustments
	MarketAdjustment float64 // per-position calibration multiplier applied
	TierAdjustment   float64 // rank-band multiplier applied

	AuctionValue int // integer dollars, >= 1
	Confidence   float64

	MaxBid    int // round(AuctionValue * 1.15), floored at 1
	TargetBid int // AuctionValue
	MinBid    int // round(AuctionValue * 0.85), floored at 1
}
