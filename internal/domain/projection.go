package domain

// SourceProjection is one source's projection for a resolved player.
// Immutable once parsed from a RawRecord.
type SourceProjection struct {
	SourceName      string
	Weight          float64 // source reliability weight in (0, 1]
	PlayerID        string
	ProjectedPoints float64
	MatchConfidence float64 // confidence of the identity match that produced it
	Stats           map[string]float64
}

// AggregatedProjection is the merged projection for one player across all
// sources that produced a hit. Immutable input to the valuation engine.
type AggregatedProjection struct {
	PlayerID          string
	PlayerName        string
	Position          Position
	ProjectedPoints   float64 // weighted mean over hits
	Confidence        float64 // in [0, 1]
	FloorPoints       float64 // 25th percentile of hit values
	CeilingPoints     float64 // 75th percentile of hit values
	StandardDeviation float64 // 0 for a single hit
	SourcesUsed       []string
}
