package coerce

import (
	"testing"
	"time"
)

func TestIntBasic(t *testing.T) {
	c := New()

	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"1,234", 1234, true},
		{"1,234,567", 1234567, true},
		{"(120)", -120, true},
		{"( 120 )", -120, true},
		{"-7", -7, true},
		{"$450,000", 450000, true},
		{"", 0, false},
		{"-", 0, false},
		{"--", 0, false},
		{"n/a", 0, false},
		{"NA", 0, false},
		{"NC", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
	}
	for _, tc := range cases {
		got, ok := c.Int(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Int(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFloatBasic(t *testing.T) {
	c := New()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3.25", 3.25, true},
		{"1,234.5", 1234.5, true},
		{"(2.5)", -2.5, true},
		{"4.1%", 4.1, true},
		{"-2.0%", -2.0, true},
		{"17", 17, true},
		{".5", 0.5, true},
		{"", 0, false},
		{"-", 0, false},
		{"n/a", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, ok := c.Float(tc.in)
		if ok != tc.ok {
			t.Errorf("Float(%q) ok = %v; want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (got-tc.want > 1e-9 || tc.want-got > 1e-9) {
			t.Errorf("Float(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoercionNeverPanics(t *testing.T) {
	c := New()

	hostile := []string{"", "-", "(", ")", "()", "((1))", "%%", ",,,", "($)", "(abc)", "\t \n"}
	for _, in := range hostile {
		c.Int(in)
		c.Float(in)
		c.Delta(in)
		c.Date(in)
		c.Text(in)
	}
}

func TestDelta(t *testing.T) {
	c := New()

	if got := c.Delta("+4.1%"); got != "+4.1%" {
		t.Errorf("Delta should keep sign text verbatim, got %q", got)
	}
	if got := c.Delta("NC"); got != "NC" {
		t.Errorf("Delta should keep no-change sentinel, got %q", got)
	}
	if got := c.Delta(" - "); got != "" {
		t.Errorf("dash-only delta should normalize to empty, got %q", got)
	}
}

func TestDateShapes(t *testing.T) {
	c := New()

	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"09/28/2025", time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC), true},
		{"September 28, 2025", time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC), true},
		{"2025-09-28", time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := c.Date(tc.in)
		if ok != tc.ok {
			t.Errorf("Date(%q) ok = %v; want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (got.Year() != tc.want.Year() || got.Month() != tc.want.Month() || got.Day() != tc.want.Day()) {
			t.Errorf("Date(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestText(t *testing.T) {
	c := New()

	if got := c.Text("  The   Glen  at  Tassajara  "); got != "The Glen at Tassajara" {
		t.Errorf("Text collapse failed: %q", got)
	}
	if got := c.Text(""); got != "" {
		t.Errorf("empty text should stay empty, got %q", got)
	}
}

func TestAddNullToken(t *testing.T) {
	c := New()

	if _, ok := c.Int("TBD"); ok {
		t.Fatal("TBD should not parse before registration either")
	}
	c.AddNullToken("TBD")
	if _, ok := c.Int("tbd"); ok {
		t.Error("registered sentinel should coerce to null")
	}
}
