package validation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/valuation"
)

// Budget conservation band over the top teams*rosterSize players.
const (
	budgetBandMin = 0.95
	budgetBandMax = 1.05
)

// distributionBand is the acceptable share of starter dollars per position.
type distributionBand struct {
	Min, Max float64
}

var distributionBands = map[domain.Position]distributionBand{
	domain.PositionQB:  {0.05, 0.10},
	domain.PositionRB:  {0.45, 0.52},
	domain.PositionWR:  {0.33, 0.40},
	domain.PositionTE:  {0.05, 0.10},
	domain.PositionDST: {0.005, 0.02},
	domain.PositionK:   {0.005, 0.02},
}

// starterEquivalents12 counts starter slots per position in a 12-team
// league with flex spots apportioned by the fixed flex-share heuristic
// (flex dollars flow to RB and WR, with WR taking the larger share).
var starterEquivalents12 = map[domain.Position]int{
	domain.PositionQB:  12,
	domain.PositionRB:  30,
	domain.PositionWR:  36,
	domain.PositionTE:  12,
	domain.PositionDST: 12,
	domain.PositionK:   12,
}

// Check is one validation row.
type Check struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Report is the outcome of a validation pass.
type Report struct {
	Passed          bool
	TotalValue      int     // dollars over the top teams*rosterSize players
	PercentOfBudget float64 // TotalValue / league budget
	RescaleFactor   float64 // 1.0 unless Apply rescaled
	Distribution    map[domain.Position]float64
	Checks          []Check
}

// Checker runs the post-valuation invariant checks.
type Checker struct {
	settings domain.LeagueSettings
	logger   *slog.Logger
}

// NewChecker creates a checker for one league configuration.
func NewChecker(settings domain.LeagueSettings, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{settings: settings, logger: logger}
}

// Validate reports on the budget and distribution invariants without
// touching the results.
func (c *Checker) Validate(results []*domain.ValuationResult) *Report {
	report := c.build(results)
	report.RescaleFactor = 1.0
	return report
}

// Apply validates and, when the top-N total exceeds 105% of budget, applies
// the single corrective rescale: every valuation and its bid band is scaled
// so the top-N sum lands at 100% of budget, re-floored at $1. This is the
// only mutation of valuation results after the engine runs. The returned
// report reflects the post-rescale state.
func (c *Checker) Apply(results []*domain.ValuationResult) *Report {
	total := c.topNTotal(results)
	budget := float64(c.settings.TotalBudget())

	factor := 1.0
	if float64(total) > budget*budgetBandMax {
		factor = budget / float64(total)
		c.logger.Info("budget invariant violated, rescaling valuations",
			slog.Int("total", total),
			slog.Float64("factor", factor))
		for _, r := range results {
			r.AuctionValue = scaleDollars(r.AuctionValue, factor)
			valuation.SetBids(r)
		}
		valuation.SortResults(results)
	}

	report := c.build(results)
	report.RescaleFactor = factor
	return report
}

func (c *Checker) build(results []*domain.ValuationResult) *Report {
	total := c.topNTotal(results)
	budget := c.settings.TotalBudget()
	pct := 0.0
	if budget > 0 {
		pct = float64(total) / float64(budget)
	}

	report := &Report{
		TotalValue:      total,
		PercentOfBudget: pct,
		Distribution:    c.distribution(results),
	}

	budgetCheck := Check{
		Name:      "budget conservation",
		Threshold: fmt.Sprintf("%.0f%%-%.0f%% of $%d", budgetBandMin*100, budgetBandMax*100, budget),
		Actual:    fmt.Sprintf("%.1f%% ($%d)", pct*100, total),
		Pass:      pct >= budgetBandMin && pct <= budgetBandMax,
	}
	report.Checks = append(report.Checks, budgetCheck)

	for _, pos := range domain.AllPositions {
		band, ok := distributionBands[pos]
		if !ok {
			continue
		}
		share := report.Distribution[pos]
		report.Checks = append(report.Checks, Check{
			Name:      fmt.Sprintf("%s distribution", pos),
			Threshold: fmt.Sprintf("%.1f%%-%.1f%%", band.Min*100, band.Max*100),
			Actual:    fmt.Sprintf("%.1f%%", share*100),
			Pass:      share >= band.Min && share <= band.Max,
		})
	}

	report.Passed = true
	for _, check := range report.Checks {
		if !check.Pass {
			report.Passed = false
			c.logger.Warn("validation check failed",
				slog.String("check", check.Name),
				slog.String("threshold", check.Threshold),
				slog.String("actual", check.Actual))
		}
	}
	return report
}

// topNTotal sums the top teams*rosterSize auction values league-wide.
func (c *Checker) topNTotal(results []*domain.ValuationResult) int {
	values := make([]int, len(results))
	for i, r := range results {
		values[i] = r.AuctionValue
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	n := c.settings.TotalRosterSpots()
	if n > len(values) {
		n = len(values)
	}
	total := 0
	for _, v := range values[:n] {
		total += v
	}
	return total
}

// distribution computes each position's share of starter dollars using the
// starter-equivalent counts scaled to the league's team count.
func (c *Checker) distribution(results []*domain.ValuationResult) map[domain.Position]float64 {
	byPos := make(map[domain.Position][]int)
	for _, r := range results {
		byPos[r.Position] = append(byPos[r.Position], r.AuctionValue)
	}

	posTotals := make(map[domain.Position]int, len(byPos))
	grand := 0
	for pos, values := range byPos {
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		n := c.starterEquivalents(pos)
		if n > len(values) {
			n = len(values)
		}
		sum := 0
		for _, v := range values[:n] {
			sum += v
		}
		posTotals[pos] = sum
		grand += sum
	}

	shares := make(map[domain.Position]float64, len(posTotals))
	for pos, sum := range posTotals {
		if grand > 0 {
			shares[pos] = float64(sum) / float64(grand)
		}
	}
	return shares
}

// starterEquivalents scales the 12-team slot counts to the league size.
func (c *Checker) starterEquivalents(pos domain.Position) int {
	base := starterEquivalents12[pos]
	return int(math.Round(float64(base) * float64(c.settings.Teams) / 12.0))
}

// scaleDollars applies the rescale factor with rounding and the $1 floor.
func scaleDollars(v int, factor float64) int {
	d := int(math.Round(float64(v) * factor))
	if d < 1 {
		return 1
	}
	return d
}
