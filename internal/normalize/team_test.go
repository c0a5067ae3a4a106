package normalize

import "testing"

func TestNormalizeTeam_Mappings(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ARZ", "ARI"},
		{"BLT", "BAL"},
		{"HST", "HOU"},
		{"CLV", "CLE"},
		{"JAC", "JAX"},
		{"LA", "LAR"},
		{"NY", "NYG"},
		{"SD", "LAC"},
		{"STL", "LAR"},
		{"OAK", "LV"},
		{"WSH", "WAS"},
		{"GB", "GB"},
		{"kc", "KC"},
		{"Washington", "WAS"},
		{"Buffalo Bills", "BUF"},
		{"niners", "SF"},
		{"", "FA"},
		{"   ", "FA"},
		{"XXX", "FA"},
		{"FA", "FA"},
	}

	for _, c := range cases {
		if got := NormalizeTeam(c.in); got != c.want {
			t.Errorf("NormalizeTeam(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTeam_Idempotent(t *testing.T) {
	inputs := []string{"ARZ", "LA", "Buffalo Bills", "", "XXX", "KC", "FA"}
	for _, in := range inputs {
		once := NormalizeTeam(in)
		if twice := NormalizeTeam(once); twice != once {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTeamCodes(t *testing.T) {
	codes := TeamCodes()
	if len(codes) != 32 {
		t.Fatalf("expected 32 team codes, got %d", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted at %d: %s >= %s", i, codes[i-1], codes[i])
		}
	}
}
