package repository

import "testing"

func TestLikeEscaper(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"zhang", "zhang"},
		{"100%", `100\%`},
		{"_", `\_`},
		{"a_b%c", `a\_b\%c`},
		{`C:\tmp`, `C:\\tmp`},
		{`\%`, `\\\%`},
	}
	for _, tc := range cases {
		if got := likeEscaper.Replace(tc.in); got != tc.want {
			t.Errorf("转义 %q = %q, 期望 %q", tc.in, got, tc.want)
		}
	}
}
