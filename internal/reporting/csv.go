package reporting

import (
	"fmt"
	"strings"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// RenderCSV renders the valued pool as CSV string. Row order follows the
// input, so two runs over identical data render byte-identical output.
func RenderCSV(results []*domain.ValuationResult) string {
	var sb strings.Builder

	sb.WriteString("player_id,player_name,position,team,projected_points,position_rank,")
	sb.WriteString("replacement_points,value_over_replacement,auction_value,confidence,")
	sb.WriteString("max_bid,target_bid,min_bid\n")

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.2f,%d,%.2f,%.2f,%d,%.2f,%d,%d,%d\n",
			r.PlayerID,
			csvEscape(r.PlayerName),
			r.Position,
			r.Team,
			r.ProjectedPoints,
			r.PositionRank,
			r.ReplacementPoints,
			r.ValueOverReplacement,
			r.AuctionValue,
			r.Confidence,
			r.MaxBid,
			r.TargetBid,
			r.MinBid,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, `",`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
