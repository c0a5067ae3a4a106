// Package identity resolves raw (name, team, position) triples from noisy
// sources to canonical player identities.
package identity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/giraffingoutloud/fftool/internal/domain"
	"github.com/giraffingoutloud/fftool/internal/idhash"
	"github.com/giraffingoutloud/fftool/internal/normalize"
)

// MatchKind classifies how a raw record matched a canonical identity.
type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchAlias      MatchKind = "alias"
	MatchNormalized MatchKind = "normalized"
	MatchFuzzy      MatchKind = "fuzzy"
	MatchNotFound   MatchKind = "not_found"
)

// maxFuzzyDistance is the largest accepted edit distance for a fuzzy match.
const maxFuzzyDistance = 3

// ErrEmptyName is returned when a raw record carries no name at all.
var ErrEmptyName = errors.New("empty player name")

// MatchResult is the outcome of one resolution attempt.
type MatchResult struct {
	Identity   *domain.PlayerIdentity
	Confidence float64
	MatchKind  MatchKind
	// TeamMismatch is set when the match was found on a different team than
	// the record claimed (possible trade).
	TeamMismatch bool
}

type indexKey struct {
	name string
	team string
	pos  domain.Position
}

// Resolver maintains the canonical identity index for one resolution run and
// implements the matching ladder. Construct one per run and pass it
// explicitly; there is no shared global instance.
type Resolver struct {
	aliases *normalize.AliasTable

	mu      sync.RWMutex
	byExact map[indexKey]*domain.PlayerIdentity // keyed by verbatim canonical name
	byNorm  map[indexKey]*domain.PlayerIdentity // keyed by normalized name
	byID    map[string]*domain.PlayerIdentity
	now     func() time.Time
}

// NewResolver creates an empty resolver using the given alias table.
func NewResolver(aliases *normalize.AliasTable) *Resolver {
	return &Resolver{
		aliases: aliases,
		byExact: make(map[indexKey]*domain.PlayerIdentity),
		byNorm:  make(map[indexKey]*domain.PlayerIdentity),
		byID:    make(map[string]*domain.PlayerIdentity),
		now:     time.Now,
	}
}

// NormalizePosition maps position spellings to a canonical position.
func NormalizePosition(position string) domain.Position {
	p := strings.ToUpper(strings.TrimSpace(position))
	switch p {
	case "DEF", "D/ST", "D":
		return domain.PositionDST
	case "PK":
		return domain.PositionK
	}
	return domain.Position(p)
}

// Register adds a canonical identity for (name, team, position), or returns
// the existing one when the triple is already indexed. The returned bool is
// true when a new identity was created.
func (r *Resolver) Register(name, team, position string, age int) (*domain.PlayerIdentity, bool, error) {
	return r.register(name, team, position, age, false)
}

// CreateProvisionalPlayer synthesizes an identity for a player no source
// recognized. The caller is expected to attach zero projected points and a
// 0.5 confidence to anything derived from it.
func (r *Resolver) CreateProvisionalPlayer(name, team, position string) (*domain.PlayerIdentity, error) {
	p, _, err := r.register(name, team, position, 0, true)
	return p, err
}

func (r *Resolver) register(name, team, position string, age int, provisional bool) (*domain.PlayerIdentity, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	teamCode := normalize.NormalizeTeam(team)
	pos := NormalizePosition(position)
	if pos == domain.PositionFB {
		pos = domain.PositionRB
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byExact[indexKey{name, teamCode, pos}]; ok {
		return existing, false, nil
	}
	normName := normalize.NormalizeName(name)
	if existing, ok := r.byNorm[indexKey{normName, teamCode, pos}]; ok {
		return existing, false, nil
	}

	p := &domain.PlayerIdentity{
		PlayerID:      idhash.ComputePlayerID(normName, pos, teamCode),
		CanonicalName: name,
		Position:      pos,
		Team:          teamCode,
		Age:           age,
		IsProvisional: provisional,
		CreatedAt:     r.now().UnixMilli(),
	}
	r.byExact[indexKey{name, teamCode, pos}] = p
	r.byNorm[indexKey{normName, teamCode, pos}] = p
	r.byID[p.PlayerID] = p
	return p, true, nil
}

// GetByID returns the identity for a player ID, or nil.
func (r *Resolver) GetByID(playerID string) *domain.PlayerIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[playerID]
}

// Identities returns a snapshot of all indexed identities, sorted by
// canonical name, then team, for deterministic iteration.
func (r *Resolver) Identities() []*domain.PlayerIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.PlayerIdentity, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CanonicalName != out[j].CanonicalName {
			return out[i].CanonicalName < out[j].CanonicalName
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// UpdateTeam moves an identity to a new team on confirmed trade evidence.
// Most-recent-wins: the previous team code is discarded and the index is
// re-keyed. The identity keeps its player ID.
func (r *Resolver) UpdateTeam(playerID, newTeam string) error {
	teamCode := normalize.NormalizeTeam(newTeam)

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[playerID]
	if !ok {
		return fmt.Errorf("update team: unknown player id %s", playerID)
	}
	if p.Team == teamCode {
		return nil
	}

	normName := normalize.NormalizeName(p.CanonicalName)
	delete(r.byExact, indexKey{p.CanonicalName, p.Team, p.Position})
	delete(r.byNorm, indexKey{normName, p.Team, p.Position})
	p.Team = teamCode
	r.byExact[indexKey{p.CanonicalName, p.Team, p.Position}] = p
	r.byNorm[indexKey{normName, p.Team, p.Position}] = p
	return nil
}

// FindBestMatch runs the matching ladder for a raw (name, team, position)
// triple. Each rung is tried only if the previous failed; first success wins.
func (r *Resolver) FindBestMatch(name, team, position string) MatchResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return MatchResult{MatchKind: MatchNotFound}
	}

	teamCode := normalize.NormalizeTeam(team)
	pos := NormalizePosition(position)

	r.mu.RLock()
	defer r.mu.RUnlock()

	// 1. Exact key.
	if p, ok := r.byExact[indexKey{name, teamCode, pos}]; ok {
		return MatchResult{Identity: p, Confidence: 1.0, MatchKind: MatchExact}
	}

	// 2. Position-flex retry: fullbacks are filed under either RB or FB.
	if alt, ok := flexPosition(pos); ok {
		if p, found := r.byExact[indexKey{name, teamCode, alt}]; found {
			return MatchResult{Identity: p, Confidence: 0.98, MatchKind: MatchExact}
		}
	}
	if pos == domain.PositionFB {
		pos = domain.PositionRB
	}

	// 3. Alias resolution.
	if aliased := r.aliases.ResolveAlias(name); aliased != name {
		if p, ok := r.probeNormalized(aliased, teamCode, pos); ok {
			return MatchResult{Identity: p, Confidence: 0.95, MatchKind: MatchAlias}
		}
	}

	// 4. Nickname stripping, plus the alias of the stripped form.
	if stripped := normalize.StripNickname(name); stripped != name {
		if p, ok := r.byExact[indexKey{stripped, teamCode, pos}]; ok {
			return MatchResult{Identity: p, Confidence: 0.95, MatchKind: MatchAlias}
		}
		if p, ok := r.probeNormalized(r.aliases.ResolveAlias(stripped), teamCode, pos); ok {
			return MatchResult{Identity: p, Confidence: 0.95, MatchKind: MatchAlias}
		}
	}

	// 5. Normalized-key match.
	normName := normalize.NormalizeName(name)
	if p, ok := r.probeNormalized(normName, teamCode, pos); ok {
		return MatchResult{Identity: p, Confidence: 0.90, MatchKind: MatchNormalized}
	}

	// 6. Defense-unit special case.
	if isDefenseQuery(name, pos) {
		if res, ok := r.matchDefense(name, teamCode); ok {
			return res
		}
		// Synthesized below by the caller through CreateProvisionalPlayer;
		// signalled here as not_found with the DST position preserved.
	}

	// 7. Fuzzy match within the same team and position.
	if res, ok := r.matchFuzzy(normName, teamCode, pos); ok {
		return res
	}

	// 8. Cross-team fallback: same normalized name and position anywhere.
	if res, ok := r.matchCrossTeam(normName, pos); ok {
		return res
	}

	// 9. Not found. The caller decides whether to synthesize a provisional
	// identity.
	return MatchResult{MatchKind: MatchNotFound}
}

// ResolveDefense resolves a defense-unit record, synthesizing a provisional
// DST identity when no probe or fallback hits. Never reports not_found for a
// valid team.
func (r *Resolver) ResolveDefense(name, team string) (MatchResult, error) {
	res := r.FindBestMatch(name, team, string(domain.PositionDST))
	if res.MatchKind != MatchNotFound {
		return res, nil
	}

	teamCode := normalize.NormalizeTeam(team)
	canonical := fmt.Sprintf("%s DST", teamCode)
	p, err := r.CreateProvisionalPlayer(canonical, teamCode, string(domain.PositionDST))
	if err != nil {
		return MatchResult{MatchKind: MatchNotFound}, err
	}
	return MatchResult{Identity: p, Confidence: 0.5, MatchKind: MatchAlias}, nil
}

// probeNormalized looks up a normalized name in the normalized index,
// including the RB/FB flex variant. Callers must hold at least the read lock.
func (r *Resolver) probeNormalized(normName, team string, pos domain.Position) (*domain.PlayerIdentity, bool) {
	if p, ok := r.byNorm[indexKey{normName, team, pos}]; ok {
		return p, true
	}
	if alt, ok := flexPosition(pos); ok {
		if p, found := r.byNorm[indexKey{normName, team, alt}]; found {
			return p, true
		}
	}
	return nil, false
}

// matchDefense probes the cross-product of defense name forms for the team,
// then falls back to any DST already indexed under the same team code.
func (r *Resolver) matchDefense(name, teamCode string) (MatchResult, bool) {
	for _, probe := range defenseProbes(teamCode) {
		if p, ok := r.byNorm[indexKey{probe, teamCode, domain.PositionDST}]; ok {
			return MatchResult{Identity: p, Confidence: 0.95, MatchKind: MatchAlias}, true
		}
	}

	// Any DST under the same normalized team code.
	var candidates []*domain.PlayerIdentity
	for _, p := range r.byID {
		if p.Position == domain.PositionDST && p.Team == teamCode {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].CanonicalName < candidates[j].CanonicalName
		})
		return MatchResult{Identity: candidates[0], Confidence: 0.95, MatchKind: MatchAlias}, true
	}
	return MatchResult{}, false
}

// matchFuzzy finds the minimum-edit-distance candidate sharing team and
// position. Ties at equal distance break lexicographically by canonical name
// so results never depend on map iteration order.
func (r *Resolver) matchFuzzy(normName, teamCode string, pos domain.Position) (MatchResult, bool) {
	best := maxFuzzyDistance + 1
	var bestID *domain.PlayerIdentity
	var bestName string

	for _, p := range r.byID {
		if p.Team != teamCode || p.Position != pos {
			continue
		}
		cn := normalize.NormalizeName(p.CanonicalName)
		d := levenshtein(normName, cn)
		if d < best || (d == best && bestID != nil && cn < bestName) {
			best = d
			bestID = p
			bestName = cn
		}
	}

	if bestID == nil || best > maxFuzzyDistance {
		return MatchResult{}, false
	}
	conf := 1.0 - 0.15*float64(best)
	if conf < 0.5 {
		conf = 0.5
	}
	return MatchResult{Identity: bestID, Confidence: conf, MatchKind: MatchFuzzy}, true
}

// matchCrossTeam searches for the same normalized name at the same position
// on any team (possible trade). Confidence is capped at 0.8 and the caller is
// told the team mismatched.
func (r *Resolver) matchCrossTeam(normName string, pos domain.Position) (MatchResult, bool) {
	var candidates []*domain.PlayerIdentity
	for _, p := range r.byID {
		if p.Position != pos {
			continue
		}
		if normalize.NormalizeName(p.CanonicalName) == normName {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return MatchResult{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CanonicalName != candidates[j].CanonicalName {
			return candidates[i].CanonicalName < candidates[j].CanonicalName
		}
		return candidates[i].Team < candidates[j].Team
	})

	conf := 0.90
	if conf > 0.8 {
		conf = 0.8
	}
	return MatchResult{
		Identity:     candidates[0],
		Confidence:   conf,
		MatchKind:    MatchNormalized,
		TeamMismatch: true,
	}, true
}

// flexPosition returns the RB/FB counterpart for the position-flex retry.
func flexPosition(pos domain.Position) (domain.Position, bool) {
	switch pos {
	case domain.PositionRB:
		return domain.PositionFB, true
	case domain.PositionFB:
		return domain.PositionRB, true
	}
	return "", false
}

// isDefenseQuery reports whether a record is asking for a defense unit.
func isDefenseQuery(name string, pos domain.Position) bool {
	if pos == domain.PositionDST {
		return true
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "dst") || strings.Contains(lower, "defense")
}

// defenseProbes generates the normalized defense name variants for a team.
func defenseProbes(teamCode string) []string {
	city, mascot := normalize.TeamDisplayName(teamCode)
	forms := []string{
		fmt.Sprintf("%s DST", teamCode),
	}
	if mascot != "" {
		forms = append(forms,
			city,
			mascot,
			mascot+" DST",
			mascot+" Defense",
			city+" "+mascot,
			city+" "+mascot+" Defense",
		)
	}
	probes := make([]string, 0, len(forms))
	for _, f := range forms {
		probes = append(probes, normalize.NormalizeName(f))
	}
	return probes
}
