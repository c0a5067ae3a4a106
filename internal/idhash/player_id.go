package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// ComputePlayerID computes a deterministic player_id using SHA256.
// Formula: SHA256(canonical_name|position|team), base58-encoded.
// The same identity triple always yields the same ID across runs.
func ComputePlayerID(canonicalName string, position domain.Position, team string) string {
	data := fmt.Sprintf("%s|%s|%s", canonicalName, string(position), team)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
