// Package ingestion loads raw projection sources and live market quotes,
// reconciling every source's field names into the normalized RawRecord shape
// before anything downstream sees a row.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/giraffingoutloud/fftool/internal/domain"
)

// DefaultMaxQuarantineRatio fails a load when more than this fraction of
// rows quarantine.
const DefaultMaxQuarantineRatio = 0.10

// naTokens are the literal cell values treated as missing data.
var naTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"nil":  {},
	"-":    {},
	"--":   {},
}

// Field-name synonyms per semantic column. Matching is case-insensitive on
// the trimmed header cell.
var (
	nameFields     = []string{"name", "full name", "player", "playername", "player name", "player_name"}
	teamFields     = []string{"team", "tm", "team_code", "nfl team"}
	positionFields = []string{"position", "pos", "fantasy position"}
	pointsFields   = []string{"projected_points", "fantasy points", "fpts", "points", "proj", "projection", "misc_fpts"}
	adpFields      = []string{"adp", "avg pick", "average draft position", "averagedraftposition"}
	auctionFields  = []string{"auction_value", "auction value", "avg cost", "value", "aav"}
	ageFields      = []string{"age"}
)

// QuarantinedRow is one rejected source row with the reason it was dropped.
type QuarantinedRow struct {
	Line   int
	Reason string
	Raw    []string
}

// LoadResult is the outcome of loading one source file.
type LoadResult struct {
	Source      string
	Records     []domain.RawRecord
	Quarantined []QuarantinedRow
	// Coerced counts cells that parsed only after NA-token nulling or
	// whitespace/symbol stripping.
	Coerced int
}

// QuarantineRatio is the fraction of input rows that quarantined.
func (r *LoadResult) QuarantineRatio() float64 {
	total := len(r.Records) + len(r.Quarantined)
	if total == 0 {
		return 0
	}
	return float64(len(r.Quarantined)) / float64(total)
}

// Loader reads one CSV projection source into RawRecords.
type Loader struct {
	// MaxQuarantineRatio fails the load when exceeded.
	MaxQuarantineRatio float64

	logger *slog.Logger
}

// NewLoader creates a loader with the default quarantine ceiling.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		MaxQuarantineRatio: DefaultMaxQuarantineRatio,
		logger:             logger,
	}
}

// columnMap resolves each semantic field to its column index, -1 if absent.
type columnMap struct {
	name, team, position, points, adp, auction, age int
	stats                                           map[int]string // extra numeric columns by index
}

// Load reads all rows of one source. A row quarantines when its name cell is
// missing, its projected points cell fails numeric coercion, or the row is a
// duplicate of an earlier (name, team, position) triple. The load fails
// outright when the quarantine ratio exceeds MaxQuarantineRatio.
func (l *Loader) Load(source string, r io.Reader) (*LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // sources pad rows inconsistently

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", source, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("map %s columns: %w", source, err)
	}

	result := &LoadResult{Source: source}
	seen := make(map[string]struct{})

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", source, err)
		}
		line++

		record, reason := parseRow(source, cols, row, result)
		if reason == "" {
			key := strings.ToLower(record.Name) + "|" + record.Team + "|" + record.Position
			if _, dup := seen[key]; dup {
				reason = "duplicate row"
			} else {
				seen[key] = struct{}{}
			}
		}
		if reason != "" {
			result.Quarantined = append(result.Quarantined, QuarantinedRow{Line: line, Reason: reason, Raw: row})
			continue
		}
		result.Records = append(result.Records, record)
	}

	if ratio := result.QuarantineRatio(); ratio > l.MaxQuarantineRatio {
		return nil, fmt.Errorf("load %s: quarantine ratio %.2f exceeds maximum %.2f (%d of %d rows)",
			source, ratio, l.MaxQuarantineRatio, len(result.Quarantined), len(result.Records)+len(result.Quarantined))
	}

	l.logger.Info("source loaded",
		slog.String("source", source),
		slog.Int("records", len(result.Records)),
		slog.Int("quarantined", len(result.Quarantined)),
		slog.Int("coerced", result.Coerced))
	return result, nil
}

func parseRow(source string, cols *columnMap, row []string, result *LoadResult) (domain.RawRecord, string) {
	record := domain.RawRecord{Source: source}

	record.Name = cell(row, cols.name)
	if isNA(record.Name) {
		return record, "missing name"
	}
	record.Team = cell(row, cols.team)
	record.Position = cell(row, cols.position)

	if cols.points >= 0 {
		v, coerced, err := parseNumeric(cell(row, cols.points))
		if err != nil {
			return record, "unparseable projected points"
		}
		record.ProjectedPoints = v
		if coerced {
			result.Coerced++
		}
	}
	record.ADP = optionalNumeric(row, cols.adp, result)
	record.AuctionValue = optionalNumeric(row, cols.auction, result)

	if v := optionalNumeric(row, cols.age, result); v != nil {
		age := int(*v)
		record.Age = &age
	}

	for idx, stat := range cols.stats {
		v, _, err := parseNumeric(cell(row, idx))
		if err != nil || v == nil {
			continue
		}
		if record.Stats == nil {
			record.Stats = make(map[string]float64)
		}
		record.Stats[stat] = *v
	}

	return record, ""
}

// optionalNumeric parses a cell that may be absent or NA; bad values null
// out rather than quarantine the row.
func optionalNumeric(row []string, idx int, result *LoadResult) *float64 {
	if idx < 0 {
		return nil
	}
	v, coerced, err := parseNumeric(cell(row, idx))
	if err != nil {
		return nil
	}
	if coerced {
		result.Coerced++
	}
	return v
}

// parseNumeric parses one numeric cell. Returns (nil, false, nil) for NA
// tokens, and coerced=true when parsing needed symbol stripping.
func parseNumeric(s string) (*float64, bool, error) {
	trimmed := strings.TrimSpace(s)
	if isNA(trimmed) {
		return nil, false, nil
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err == nil {
		return &v, false, nil
	}

	// Sources decorate numbers: "$42", "1,024.5", "12.3 pts".
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(trimmed)
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "pts"))
	v, err = strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return &v, true, nil
}

func isNA(s string) bool {
	_, ok := naTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// mapColumns resolves header cells to semantic fields. Name is the only
// required column; unrecognized columns become per-stat extras.
func mapColumns(header []string) (*columnMap, error) {
	cols := &columnMap{name: -1, team: -1, position: -1, points: -1, adp: -1, auction: -1, age: -1, stats: make(map[int]string)}

	match := func(cell string, candidates []string) bool {
		for _, c := range candidates {
			if cell == c {
				return true
			}
		}
		return false
	}

	for i, h := range header {
		cell := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.name < 0 && match(cell, nameFields):
			cols.name = i
		case cols.team < 0 && match(cell, teamFields):
			cols.team = i
		case cols.position < 0 && match(cell, positionFields):
			cols.position = i
		case cols.points < 0 && match(cell, pointsFields):
			cols.points = i
		case cols.adp < 0 && match(cell, adpFields):
			cols.adp = i
		case cols.auction < 0 && match(cell, auctionFields):
			cols.auction = i
		case cols.age < 0 && match(cell, ageFields):
			cols.age = i
		case cell != "":
			cols.stats[i] = cell
		}
	}

	if cols.name < 0 {
		return nil, fmt.Errorf("no name column in header %v", header)
	}
	return cols, nil
}
