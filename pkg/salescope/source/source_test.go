package source

import (
	"strings"
	"testing"
)

func TestFromReaderPageBreaks(t *testing.T) {
	text := "Week 1 Ending: 01/05/2025\n  Alameda 12 210\n\fPage two header\nAnother row\n"

	lines, err := FromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %+v", len(lines), lines)
	}

	if lines[0].Page != 1 || lines[1].Page != 1 {
		t.Errorf("first two lines should be page 1: %+v", lines[:2])
	}
	if lines[2].Page != 2 || lines[3].Page != 2 {
		t.Errorf("form feed should advance the page: %+v", lines[2:])
	}
	if lines[1].X == 0 {
		t.Error("indented line should carry a nonzero X hint")
	}
	if lines[0].X != 0 {
		t.Errorf("flush-left line X = %v, want 0", lines[0].X)
	}
}

func TestFromReaderMidLineFormFeed(t *testing.T) {
	lines, err := FromReader(strings.NewReader("tail of page one\fhead of page two\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %+v", len(lines), lines)
	}
	if lines[0].Page != 1 || lines[1].Page != 2 {
		t.Errorf("pages = %d, %d", lines[0].Page, lines[1].Page)
	}
}

func TestFromStrings(t *testing.T) {
	lines := FromStrings([]string{"a", "  b"})
	if len(lines) != 2 || lines[0].Page != 1 || lines[1].Page != 1 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if lines[1].X <= lines[0].X {
		t.Error("indentation should increase X")
	}
}
