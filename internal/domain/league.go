package domain

// LeagueSettings is the immutable league configuration supplied once at
// pipeline start and read-only thereafter.
type LeagueSettings struct {
	Teams      int
	Budget     int // per-team auction budget in dollars
	RosterSize int // total roster spots per team, bench included

	// Starters counts required starters per position (flex excluded).
	Starters map[Position]int
	// FlexCount is the number of flex spots per team.
	FlexCount int
	// FlexEligible lists positions allowed in a flex spot.
	FlexEligible []Position
	BenchSize    int

	ScoringMode string // e.g. "ppr", "half-ppr", "standard"
}

// DefaultLeagueSettings returns a standard 12-team, $200, 16-roster league.
func DefaultLeagueSettings() LeagueSettings {
	return LeagueSettings{
		Teams:      12,
		Budget:     200,
		RosterSize: 16,
		Starters: map[Position]int{
			PositionQB:  1,
			PositionRB:  2,
			PositionWR:  2,
			PositionTE:  1,
			PositionDST: 1,
			PositionK:   1,
		},
		FlexCount:    2,
		FlexEligible: []Position{PositionRB, PositionWR, PositionTE},
		BenchSize:    6,
		ScoringMode:  "ppr",
	}
}

// TotalBudget returns the league-wide spendable dollars.
func (s LeagueSettings) TotalBudget() int {
	return s.Teams * s.Budget
}

// TotalRosterSpots returns the league-wide roster spot count.
func (s LeagueSettings) TotalRosterSpots() int {
	return s.Teams * s.RosterSize
}
