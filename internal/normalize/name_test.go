package normalize

import "testing"

func TestNormalizeName_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A.J. Brown", "aj brown"},
		{"AJ Brown", "aj brown"},
		{"Michael Pittman Jr.", "michael pittman"},
		{"Michael Pittman", "michael pittman"},
		{"Kenneth Walker III", "kenneth walker"},
		{"John Doe Jr. II", "john doe"},
		{"Frank Gore Sr. III", "frank gore"},
		{"D'Andre Swift", "dandre swift"},
		{"Ja'Marr Chase", "jamarr chase"},
		{"  Patrick   Mahomes  ", "patrick mahomes"},
		{"Odell Beckham Jr", "odell beckham"},
		{"", ""},
		{"...", ""},
	}

	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	names := []string{
		"A.J. Brown", "Michael Pittman Jr.", "Buffalo Bills", "BUF DST",
		"D'Andre Swift", "", "Marvin Harrison Jr.", "49ers",
		"John Doe Jr. II", "Frank Gore Sr. III",
	}
	for _, n := range names {
		once := NormalizeName(n)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", n, once, twice)
		}
	}
}

func TestNormalizeName_NicknameSpans(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`Marquise "Hollywood" Brown`, "marquise brown"},
		{"Marquise (Hollywood) Brown", "marquise brown"},
		{"Marquise 'Hollywood' Brown", "marquise brown"},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripNickname(t *testing.T) {
	if got := StripNickname(`Marquise "Hollywood" Brown`); got != "Marquise Brown" {
		t.Errorf("StripNickname = %q, want %q", got, "Marquise Brown")
	}
	// Apostrophes inside names survive.
	if got := StripNickname("Ja'Marr Chase"); got != "Ja'Marr Chase" {
		t.Errorf("StripNickname mangled apostrophe name: %q", got)
	}
}

func TestNormalizeName_SuffixOnlyTrailing(t *testing.T) {
	// "V" as a leading or middle token is not a suffix.
	if got := NormalizeName("V Jefferson"); got != "v jefferson" {
		t.Errorf("leading V stripped: %q", got)
	}
}
