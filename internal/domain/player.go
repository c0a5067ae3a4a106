package domain

// Position is a fantasy roster position.
type Position string

// Canonical positions. FB is accepted on input but folded into RB during
// identity resolution; it never appears on a PlayerIdentity.
const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionDST Position = "DST"
	PositionK   Position = "K"
	PositionFB  Position = "FB"
)

// AllPositions lists every canonical position in a fixed order.
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST, PositionK}

// TeamFreeAgent is the sentinel team code for blank or unknown teams.
const TeamFreeAgent = "FA"

// PlayerIdentity is the canonical player entity. The triple
// (CanonicalName, Position, Team) is unique within a resolution run.
// Identities are never mutated after creation except for the team code,
// which may be updated on confirmed trade evidence (most-recent-wins).
type PlayerIdentity struct {
	PlayerID      string   // deterministic hash of the identity triple
	CanonicalName string
	Position      Position
	Team          string // normalized 2-3 letter code or FA
	Age           int    // 0 if unknown
	IsProvisional bool   // true if synthesized because no source recognized it
	CreatedAt     int64  // Unix timestamp in milliseconds
}
