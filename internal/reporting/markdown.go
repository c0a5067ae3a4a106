package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// RenderMarkdown renders the report as a Markdown draft sheet.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Auction Draft Sheet\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Players valued: %d | League: %d teams, $%d budget\n\n",
		r.PlayerCount, r.LeagueTeams, r.LeagueBudget))

	// Validation
	if r.Validation != nil {
		sb.WriteString("## Validation\n\n")
		sb.WriteString("| Check | Threshold | Actual | Status |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, check := range r.Validation.Checks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")

		if r.Validation.RescaleFactor != 1.0 {
			sb.WriteString(fmt.Sprintf("Values rescaled by %.4f to restore budget conservation.\n\n",
				r.Validation.RescaleFactor))
		}
	}

	// Top players per position
	for _, pos := range domain.AllPositions {
		players := r.TopByPosition[pos]
		if len(players) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## Top %s\n\n", pos))
		sb.WriteString("| Rank | Player | Team | Points | Value | Bid Range |\n")
		sb.WriteString("|------|--------|------|--------|-------|-----------|\n")
		for _, p := range players {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.1f | $%d | $%d-$%d |\n",
				p.PositionRank, p.PlayerName, p.Team, p.ProjectedPoints,
				p.AuctionValue, p.MinBid, p.MaxBid))
		}
		sb.WriteString("\n")
	}

	// Exclusions
	if len(r.Exclusions) > 0 {
		sb.WriteString("## Excluded Players\n\n")
		names := make([]string, 0, len(r.Exclusions))
		for name := range r.Exclusions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", name, r.Exclusions[name]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
