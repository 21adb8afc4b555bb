package parse

import (
	"regexp"
	"strings"

	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/source"
)

var weekInfoRe = regexp.MustCompile(`(?i)Week\s+(\d+)\s+Ending:\s*(.+)`)

// ParseHeader extracts the report identity fields from the header block:
// week number, week-ending date, and region label. The region is the first
// line of the block that is a bare label (letters and spaces only), e.g.
// "Bay Area". Missing pieces stay null; the block itself being absent is
// the caller's structural failure, not this parser's.
func ParseHeader(run []source.Line, c *coerce.Coercer) ReportMeta {
	var meta ReportMeta

	for _, line := range run {
		if m := weekInfoRe.FindStringSubmatch(line.Text); m != nil && !meta.WeekNum.Valid {
			if n, ok := c.Int(m[1]); ok {
				meta.WeekNum.Int64, meta.WeekNum.Valid = n, true
			}
			if d, ok := c.Date(m[2]); ok {
				meta.WeekEnding, meta.HasWeekEnd = d, true
			}
			continue
		}
		if meta.Region == "" {
			if label := regionLabel(line.Text); label != "" {
				meta.Region = label
			}
		}
	}
	return meta
}

// regionLabel accepts short, purely alphabetic lines as region labels.
func regionLabel(text string) string {
	label := strings.TrimSpace(text)
	if label == "" || len(label) > 40 {
		return ""
	}
	words := strings.Fields(label)
	if len(words) > 4 {
		return ""
	}
	for _, w := range words {
		for _, r := range w {
			if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
				return ""
			}
		}
	}
	return strings.Join(words, " ")
}
