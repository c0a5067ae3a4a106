// Package normalize canonicalizes the noisy name/team strings that arrive
// from projection and market sources.
package normalize

import (
	"regexp"
	"strings"
)

// Generational suffixes stripped as a trailing token only.
var suffixTokens = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

var (
	// Single-quoted nicknames must span whole tokens so apostrophes inside
	// names (Ja'Marr, D'Andre) survive.
	quotedNicknameRe = regexp.MustCompile(`"[^"]*"|(^|\s)'[^']*'(\s|$)`)
	parenNicknameRe  = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a player name for matching: lowercases, strips
// quoted and parenthetical nicknames, punctuation, and a trailing
// generational suffix, and collapses whitespace. Total function: empty or
// garbage input yields the empty string. Idempotent.
func NormalizeName(name string) string {
	s := StripNickname(name)
	s = strings.ToLower(s)

	// Drop punctuation. Periods and apostrophes are removed outright so
	// "A.J." and "AJ", "D'Andre" and "DAndre" compare equal; every other
	// non-alphanumeric becomes a space.
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '\'':
			// removed
		default:
			b.WriteRune(' ')
		}
	}
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(b.String()), " ")

	// Strip trailing generational suffix tokens. "Jr. II" style stacks must
	// reduce in one pass so the function stays idempotent.
	for {
		i := strings.LastIndexByte(s, ' ')
		if i < 0 || !suffixTokens[s[i+1:]] {
			break
		}
		s = s[:i]
	}

	return s
}

// StripNickname removes quoted and parenthetical nickname spans from a name,
// leaving the surrounding text intact. Used both by NormalizeName and as a
// standalone resolution ladder step.
func StripNickname(name string) string {
	s := quotedNicknameRe.ReplaceAllString(name, " ")
	s = parenNicknameRe.ReplaceAllString(s, " ")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
