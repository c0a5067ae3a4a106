package reporting

import (
	"time"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/validation"
)

// Report is the draft-prep report produced after a pipeline run.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	PlayerCount  int
	LeagueTeams  int
	LeagueBudget int

	// Valued pool, ordered by auction value DESC then name ASC.
	Results []*domain.ValuationResult

	// TopByPosition holds the best players per position for the draft sheet.
	TopByPosition map[domain.Position][]*domain.ValuationResult

	// Validation is the post-run invariant report.
	Validation *validation.Report

	// Exclusions maps player names to the reason they were dropped.
	Exclusions map[string]string
}

// topPerPosition is how many players each position table shows.
const topPerPosition = 10

// Generator builds reports from pipeline output.
type Generator struct {
	settings domain.LeagueSettings
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(settings domain.LeagueSettings) *Generator {
	return &Generator{
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles the report. results must already carry the pipeline's
// deterministic ordering.
func (g *Generator) Generate(results []*domain.ValuationResult, report *validation.Report, exclusions map[string]string) *Report {
	top := make(map[domain.Position][]*domain.ValuationResult)
	for _, r := range results {
		if len(top[r.Position]) < topPerPosition {
			top[r.Position] = append(top[r.Position], r)
		}
	}

	return &Report{
		GeneratedAt:   g.now(),
		PlayerCount:   len(results),
		LeagueTeams:   g.settings.Teams,
		LeagueBudget:  g.settings.Budget,
		Results:       results,
		TopByPosition: top,
		Validation:    report,
		Exclusions:    exclusions,
	}
}
