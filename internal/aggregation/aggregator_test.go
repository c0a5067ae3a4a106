package aggregation

import (
	"log/slog"
	"testing"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

func testPlayer() *domain.PlayerIdentity {
	return &domain.PlayerIdentity{
		PlayerID:      "p1",
		CanonicalName: "Bijan Robinson",
		Position:      domain.PositionRB,
		Team:          "ATL",
	}
}

func proj(source string, weight, points float64) *domain.SourceProjection {
	return &domain.SourceProjection{
		SourceName:      source,
		Weight:          weight,
		PlayerID:        "p1",
		ProjectedPoints: points,
		MatchConfidence: 1.0,
	}
}

func TestAggregate_WeightedMean(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("fantasypros", 0.40, 300),
		proj("cbs", 0.35, 280),
	})
	if agg == nil {
		t.Fatal("expected aggregation, got nil")
	}

	want := (300*0.40 + 280*0.35) / 0.75 // 290.67
	if diff := agg.ProjectedPoints - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("ProjectedPoints = %.2f, want %.2f", agg.ProjectedPoints, want)
	}
	if agg.FloorPoints != 285 || agg.CeilingPoints != 295 {
		t.Errorf("band = [%.1f, %.1f], want [285, 295]", agg.FloorPoints, agg.CeilingPoints)
	}
	if len(agg.SourcesUsed) != 2 || agg.SourcesUsed[0] != "cbs" || agg.SourcesUsed[1] != "fantasypros" {
		t.Errorf("SourcesUsed = %v", agg.SourcesUsed)
	}
	if agg.Position != domain.PositionRB || agg.PlayerName != "Bijan Robinson" {
		t.Error("identity fields not carried onto the aggregate")
	}
}

func TestAggregate_SingleSourceBand(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("fantasypros", 0.40, 200),
	})
	if agg == nil {
		t.Fatal("expected aggregation, got nil")
	}
	if agg.FloorPoints != 170 || agg.CeilingPoints != 230 {
		t.Errorf("single-hit band = [%.1f, %.1f], want [170, 230]", agg.FloorPoints, agg.CeilingPoints)
	}
	if agg.StandardDeviation != 0 {
		t.Errorf("single-hit stddev = %f, want 0", agg.StandardDeviation)
	}

	// Single hit: confidence = 0.5*min(1, 1/3) + 0.5*min(1, 0.40).
	want := 0.5*(1.0/3.0) + 0.5*0.40
	if diff := agg.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %f, want %f", agg.Confidence, want)
	}
}

func TestAggregate_MinSources(t *testing.T) {
	a := NewAggregator(2, slog.Default())

	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("fantasypros", 0.40, 200),
	})
	if agg != nil {
		t.Fatal("expected exclusion below minSources")
	}
	if reason := a.Excluded["p1"]; reason != "insufficient sources" {
		t.Errorf("reason = %q", reason)
	}
}

func TestAggregate_LowConfidenceExcluded(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	// One hit with near-zero weight: 0.5*(1/3) + 0.5*0.05 < 0.3.
	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("obscure", 0.05, 200),
	})
	if agg != nil {
		t.Fatal("expected low-confidence exclusion")
	}
	if reason := a.Excluded["p1"]; reason != "confidence below minimum" {
		t.Errorf("reason = %q", reason)
	}
}

func TestAggregate_LowMatchConfidenceHitDropped(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	fuzzy := proj("cbs", 0.35, 100)
	fuzzy.MatchConfidence = 0.55 // distance-3 fuzzy match

	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("fantasypros", 0.40, 300),
		fuzzy,
	})
	if agg == nil {
		t.Fatal("expected aggregation from the remaining hit")
	}
	if agg.ProjectedPoints != 300 {
		t.Errorf("ProjectedPoints = %.2f, want 300 (weak hit must not contribute)", agg.ProjectedPoints)
	}
	if len(agg.SourcesUsed) != 1 || agg.SourcesUsed[0] != "fantasypros" {
		t.Errorf("SourcesUsed = %v, want [fantasypros]", agg.SourcesUsed)
	}
}

func TestAggregate_AllHitsBelowMatchConfidence(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	weak := proj("cbs", 0.35, 100)
	weak.MatchConfidence = 0.8 // cross-team fallback

	if agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{weak}); agg != nil {
		t.Fatal("expected exclusion when every hit is below the match floor")
	}
	if reason := a.Excluded["p1"]; reason != "insufficient sources" {
		t.Errorf("reason = %q", reason)
	}
}

func TestAggregate_MultiSourceConfidence(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	agg := a.Aggregate(testPlayer(), []*domain.SourceProjection{
		proj("fantasypros", 0.40, 300),
		proj("cbs", 0.35, 300),
		proj("espn", 0.25, 300),
	})
	if agg == nil {
		t.Fatal("expected aggregation")
	}
	// Identical values: CV 0, full coverage, 3 sources -> 0.3 + 0.4 + 0.3.
	if diff := agg.Confidence - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %f, want 1.0", agg.Confidence)
	}
}

func TestAggregateAll_ZeroSourcePlayerExcluded(t *testing.T) {
	a := NewAggregator(1, slog.Default())

	ghost := &domain.PlayerIdentity{
		PlayerID:      "ghost",
		CanonicalName: "Ghost Player",
		Position:      domain.PositionWR,
		Team:          "FA",
	}

	out := a.AggregateAll(
		[]*domain.PlayerIdentity{testPlayer(), ghost},
		map[string][]*domain.SourceProjection{
			"fantasypros": {proj("fantasypros", 0.40, 300)},
		},
	)

	if len(out) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(out))
	}
	if out[0].PlayerID != "p1" {
		t.Errorf("wrong player aggregated: %s", out[0].PlayerID)
	}
	if reason := a.Excluded["ghost"]; reason != "no source hits" {
		t.Errorf("ghost exclusion reason = %q", reason)
	}
	// Never silently emitted with zero points.
	for _, agg := range out {
		if agg.PlayerID == "ghost" {
			t.Error("zero-source player leaked into output")
		}
	}
}
