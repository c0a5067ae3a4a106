package valuation

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// Correction is an externally maintained override for one player's dollar
// figure. Corrections patch known-bad upstream data after the engine runs;
// they are never folded into the valuation algorithm itself.
type Correction struct {
	PlayerID     string
	AuctionValue int
	Reason       string
}

// CorrectionTable holds corrections keyed by player ID.
type CorrectionTable struct {
	byID map[string]Correction
}

// NewCorrectionTable builds a table from a correction list. Later entries
// for the same player win.
func NewCorrectionTable(corrections []Correction) *CorrectionTable {
	t := &CorrectionTable{byID: make(map[string]Correction, len(corrections))}
	for _, c := range corrections {
		t.byID[c.PlayerID] = c
	}
	return t
}

// LoadCorrections reads a correction table from CSV with a
// player_id,auction_value,reason header row.
func LoadCorrections(r io.Reader) (*CorrectionTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read corrections: %w", err)
	}
	if len(rows) == 0 {
		return NewCorrectionTable(nil), nil
	}

	corrections := make([]Correction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		value, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("corrections row %d: bad auction value %q: %w", i+2, row[1], err)
		}
		if value < 1 {
			return nil, fmt.Errorf("corrections row %d: auction value %d below $1 floor", i+2, value)
		}
		corrections = append(corrections, Correction{
			PlayerID:     strings.TrimSpace(row[0]),
			AuctionValue: value,
			Reason:       strings.TrimSpace(row[2]),
		})
	}
	return NewCorrectionTable(corrections), nil
}

// Apply overwrites matching results in place, rederiving each bid band, and
// returns the number of corrections applied.
func (t *CorrectionTable) Apply(results []*domain.ValuationResult, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	applied := 0
	for _, r := range results {
		c, ok := t.byID[r.PlayerID]
		if !ok {
			continue
		}
		logger.Info("valuation corrected",
			slog.String("player", r.PlayerName),
			slog.Int("from", r.AuctionValue),
			slog.Int("to", c.AuctionValue),
			slog.String("reason", c.Reason))
		r.AuctionValue = c.AuctionValue
		SetBids(r)
		applied++
	}
	return applied
}
