package ref

import "testing"

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		s  string
		ok bool
		id int
	}{
		{"ref$1", true, 1},
		{"ref$0", true, 0},
		{"ref$007", true, 7},
		{"ref$123456", true, 123456},
		{"ref$", false, -1},
		{"ref$-1", false, -1},
		{"ref$+1", false, -1},
		{"ref$1a", false, -1},
		{"ref$notanumber", false, -1},
		{" ref$1", false, -1},
		{"ref$1 ", false, -1},
		{"Ref$1", false, -1},
		{"ref1", false, -1},
		{"hello", false, -1},
		{"", false, -1},
		{"ref$99999999999999999999999", false, -1},
	}
	for _, tc := range tests {
		if got := IsPlaceholder(tc.s); got != tc.ok {
			t.Errorf("IsPlaceholder(%q) = %v", tc.s, got)
		}
		if got := ExtractID(tc.s); got != tc.id {
			t.Errorf("ExtractID(%q) = %d want %d", tc.s, got, tc.id)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"ref$3":  "ref$3",
		"3":      "ref$3",
		"$3":     "ref$3",
		"refx":   "refx",
		"$":      "$",
		"":       "",
		"abc":    "abc",
		"$3a":    "$3a",
		"ref$12": "ref$12",
	}
	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q want %q", in, got, want)
		}
	}
	if Key(42) != "ref$42" {
		t.Errorf("Key(42) = %q", Key(42))
	}
}
