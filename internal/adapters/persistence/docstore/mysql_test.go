package docstore

import "testing"

func TestEscapeLikeMatchesPrefixLiterally(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Members/", "Members/"},
		{"Members/MB_0001/", `Members/MB\_0001/`},
		{"Members/100%/", `Members/100\%/`},
		{`Members/a\b/`, `Members/a\\b/`},
	}

	for _, tc := range cases {
		if got := escapeLike(tc.input); got != tc.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
