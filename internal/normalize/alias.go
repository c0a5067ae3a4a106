package normalize

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// knownVariations seeds the alias table: canonical name -> known aliases.
// Canonical names here are already in normalized form.
var knownVariations = map[string][]string{
	"kenneth walker":    {"ken walker"},
	"ceedee lamb":       {"cd lamb"},
	"marquise brown":    {"hollywood brown"},
	"gabriel davis":     {"gabe davis"},
	"joshua palmer":     {"josh palmer"},
	"cameron ward":      {"cam ward"},
	"chigoziem okonkwo": {"chig okonkwo"},
	"nathaniel dell":    {"tank dell"},
	"demario douglas":   {"pop douglas"},
}

// aliasIndex is the immutable lookup state. AddAlias builds a fresh index and
// swaps it in atomically so a concurrent reader never observes a half-built
// structure.
type aliasIndex struct {
	aliasToCanonical   map[string]string
	canonicalToAliases map[string][]string
}

// AliasTable resolves known aliases (nicknames, suffix variants, defense-unit
// name forms) to canonical player names. Lookup keys are always normalized
// via NormalizeName.
type AliasTable struct {
	mu  sync.Mutex // serializes writers; readers go through idx only
	idx atomic.Pointer[aliasIndex]
}

// NewAliasTable builds a table seeded with the known player variations and
// generated defense-unit forms for every team.
func NewAliasTable() *AliasTable {
	entries := make(map[string][]string, len(knownVariations)+len(teamMascot))
	for canonical, aliases := range knownVariations {
		entries[canonical] = append([]string(nil), aliases...)
	}

	// Defense units: canonical "<CODE> DST" with every name form a source
	// might use ("Buffalo Bills", "Bills", "Bills DST", "Bills Defense",
	// "Buffalo Bills Defense").
	for code, mascot := range teamMascot {
		city := teamCity[code]
		canonical := NormalizeName(fmt.Sprintf("%s DST", code))
		entries[canonical] = []string{
			strings.ToLower(city + " " + mascot),
			strings.ToLower(mascot),
			strings.ToLower(mascot + " dst"),
			strings.ToLower(mascot + " defense"),
			strings.ToLower(city + " " + mascot + " dst"),
			strings.ToLower(city + " " + mascot + " defense"),
		}
	}

	t := &AliasTable{}
	t.idx.Store(buildIndex(entries))
	return t
}

func buildIndex(entries map[string][]string) *aliasIndex {
	idx := &aliasIndex{
		aliasToCanonical:   make(map[string]string),
		canonicalToAliases: make(map[string][]string, len(entries)),
	}
	for canonical, aliases := range entries {
		key := NormalizeName(canonical)
		sorted := make([]string, 0, len(aliases))
		for _, a := range aliases {
			na := NormalizeName(a)
			if na == "" || na == key {
				continue
			}
			idx.aliasToCanonical[na] = key
			sorted = append(sorted, na)
		}
		sort.Strings(sorted)
		idx.canonicalToAliases[key] = sorted
	}
	return idx
}

// ResolveAlias returns the canonical name for a known alias, or the input
// unchanged when the name is not an alias. A canonical name resolves to
// itself.
func (t *AliasTable) ResolveAlias(name string) string {
	key := NormalizeName(name)
	idx := t.idx.Load()
	if canonical, ok := idx.aliasToCanonical[key]; ok {
		return canonical
	}
	if _, ok := idx.canonicalToAliases[key]; ok {
		return key
	}
	return name
}

// Aliases returns the known aliases for a canonical name, sorted.
func (t *AliasTable) Aliases(canonical string) []string {
	idx := t.idx.Load()
	aliases := idx.canonicalToAliases[NormalizeName(canonical)]
	return append([]string(nil), aliases...)
}

// AddAlias registers a run-time alias for a canonical name. The reverse
// index is regenerated into a new instance and swapped atomically.
func (t *AliasTable) AddAlias(canonical, alias string) {
	key := NormalizeName(canonical)
	na := NormalizeName(alias)
	if key == "" || na == "" || key == na {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.idx.Load()
	entries := make(map[string][]string, len(old.canonicalToAliases)+1)
	for c, aliases := range old.canonicalToAliases {
		entries[c] = append([]string(nil), aliases...)
	}
	entries[key] = append(entries[key], na)
	t.idx.Store(buildIndex(entries))
}
