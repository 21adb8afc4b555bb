// Package coerce converts raw report text fragments into typed values.
//
// Every conversion is total: malformed or empty input yields a null result
// (ok == false) or an empty string, never an error. Errors are reserved for
// structural failures higher up the pipeline.
package coerce

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Coercer normalizes raw field text from a report into typed values.
type Coercer struct {
	nullTokens map[string]struct{}
}

// New creates a Coercer with the default null sentinels.
// The source marks missing numerics as blanks, dashes, or N/A variants.
func New() *Coercer {
	c := &Coercer{nullTokens: make(map[string]struct{})}
	for _, tok := range []string{"", "-", "--", "na", "n/a", "nc", "*"} {
		c.nullTokens[tok] = struct{}{}
	}
	return c
}

// AddNullToken registers an extra sentinel treated as a missing value.
func (c *Coercer) AddNullToken(tok string) {
	c.nullTokens[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
}

// Int coerces a fragment to an integer. Thousands separators and a leading
// dollar sign are stripped; a value wrapped in parentheses is negated.
func (c *Coercer) Int(raw string) (int64, bool) {
	text, neg := c.normalizeNumeric(raw)
	if text == "" {
		return 0, false
	}
	var n int64
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Float coerces a fragment to a real number. Same rules as Int, keeping a
// single fractional component. A trailing percent sign is stripped; whether
// the value was a percentage is the caller's concern.
func (c *Coercer) Float(raw string) (float64, bool) {
	text, neg := c.normalizeNumeric(raw)
	if text == "" {
		return 0, false
	}
	whole, frac, ok := splitDecimal(text)
	if !ok {
		return 0, false
	}
	val := float64(0)
	for _, r := range whole {
		val = val*10 + float64(r-'0')
	}
	scale := 0.1
	for _, r := range frac {
		val += float64(r-'0') * scale
		scale /= 10
	}
	if neg {
		val = -val
	}
	return val, true
}

// Delta returns percentage-delta text verbatim ("+4.1%", "-2.0%", "NC").
// The source's no-change sentinel and sign conventions are not uniform, so
// the value is display text, never decomposed. Dash-only input becomes empty.
func (c *Coercer) Delta(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "-" || text == "--" {
		return ""
	}
	return text
}

// Date coerces a fragment to a calendar date. Accepts the shapes the source
// uses (MM/DD/YY, MM/DD/YYYY, "Month DD, YYYY"); false on anything else.
func (c *Coercer) Date(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Text trims a fragment and collapses runs of inner whitespace.
func (c *Coercer) Text(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// normalizeNumeric strips separators, percent signs, and parenthesized
// negation, returning cleaned digits (possibly with one dot) and a sign.
// An empty return string means the value is null.
func (c *Coercer) normalizeNumeric(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if _, null := c.nullTokens[strings.ToLower(text)]; null {
		return "", false
	}

	neg := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		neg = true
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimPrefix(text, "$")
	text = strings.TrimSpace(text)

	if _, null := c.nullTokens[strings.ToLower(text)]; null {
		return "", false
	}
	return text, neg
}

func splitDecimal(text string) (whole, frac string, ok bool) {
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		whole = text
	} else {
		whole, frac = text[:dot], text[dot+1:]
	}
	if whole == "" && frac == "" {
		return "", "", false
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return "", "", false
			}
		}
	}
	return whole, frac, true
}
