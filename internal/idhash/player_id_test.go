package idhash

import (
	"testing"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

func TestComputePlayerID_Deterministic(t *testing.T) {
	id1 := ComputePlayerID("aj brown", domain.PositionWR, "PHI")
	id2 := ComputePlayerID("aj brown", domain.PositionWR, "PHI")

	if id1 != id2 {
		t.Errorf("same triple produced different IDs: %s vs %s", id1, id2)
	}
	if id1 == "" {
		t.Error("expected non-empty ID")
	}
}

func TestComputePlayerID_DiffersByField(t *testing.T) {
	base := ComputePlayerID("aj brown", domain.PositionWR, "PHI")

	if ComputePlayerID("aj brown", domain.PositionWR, "TEN") == base {
		t.Error("team change should change ID")
	}
	if ComputePlayerID("aj brown", domain.PositionRB, "PHI") == base {
		t.Error("position change should change ID")
	}
	if ComputePlayerID("aj green", domain.PositionWR, "PHI") == base {
		t.Error("name change should change ID")
	}
}

func TestComputePlayerID_NoDelimiterCollision(t *testing.T) {
	// "a|b" + "c" must not collide with "a" + "b|c" style inputs.
	id1 := ComputePlayerID("john smith", domain.PositionRB, "KC")
	id2 := ComputePlayerID("john smith|RB", domain.PositionRB, "KC")
	if id1 == id2 {
		t.Error("delimiter collision between distinct inputs")
	}
}
