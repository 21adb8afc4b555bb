package citycode

import (
	"testing"

	"github.com/marketpulse/salescope/pkg/salescope/store"
)

func TestResolverFirstDefinitionWins(t *testing.T) {
	r := NewResolver([]store.CityCode{
		{Code: "DUB", Name: "Dublin"},
		{Code: "dub", Name: "Duplicate Town"},
		{Code: "LIV", Name: "Livermore"},
		{Code: "", Name: "ignored"},
	})

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if name, ok := r.Resolve("DUB"); !ok || name != "Dublin" {
		t.Errorf("Resolve(DUB) = %q, %v", name, ok)
	}
	if name, ok := r.Resolve("liv"); !ok || name != "Livermore" {
		t.Errorf("lookup should be case-insensitive, got %q, %v", name, ok)
	}
	if _, ok := r.Resolve("ZZZ"); ok {
		t.Error("unknown code must miss, not fail")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"dub", "DUB"},
		{" PLE ", "PLE"},
		{"FRE*", "FRE"},
		{"OAKL2", "OAKL"},
		{"12", "12"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestLooksLikeCode(t *testing.T) {
	for _, good := range []string{"A", "DUB", "oakl", " FRE "} {
		if !LooksLikeCode(good) {
			t.Errorf("%q should look like a code", good)
		}
	}
	for _, bad := range []string{"", "TOOLONG", "FR3", "1.2", "Shea Homes"} {
		if LooksLikeCode(bad) {
			t.Errorf("%q should not look like a code", bad)
		}
	}
}
