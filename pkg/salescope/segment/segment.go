// Package segment classifies the ordered line stream of a report into
// contiguous, header-delimited section runs.
//
// Classification is header-driven. Each section kind has a recognizer (a
// small set of header phrases) tried in priority order, most specific
// phrase first; once a header is recognized, subsequent lines belong to
// that section until the next recognized header or end of document. Lines
// seen before any header land in an unclassified bucket and are dropped.
package segment

import (
	"regexp"
	"strings"

	"github.com/marketpulse/salescope/pkg/salescope/source"
)

// Kind identifies one of the report's section types.
type Kind int

const (
	KindUnknown Kind = iota
	KindHeader
	KindCountySummary
	KindWeeklyMetrics
	KindYearlyComparison
	KindProjectStats
	KindProjectTotals
	KindMLSSurvey
	KindCityCodes
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindHeader:           "header",
	KindCountySummary:    "county_summary",
	KindWeeklyMetrics:    "weekly_metrics",
	KindYearlyComparison: "yearly_comparison",
	KindProjectStats:     "project_stats",
	KindProjectTotals:    "project_totals",
	KindMLSSurvey:        "mls_survey",
	KindCityCodes:        "city_codes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Run is a contiguous slice of lines assigned to one section kind. The
// header line that opened the run is included as Lines[0].
type Run struct {
	Kind  Kind
	Lines []source.Line
}

var (
	headerRe        = regexp.MustCompile(`(?i)Week\s+\d+\s+Ending:`)
	countyHeaderRe  = regexp.MustCompile(`(?i)^\s*(Weekly\s+Sales\s+Summary|County\s+Group.*Projects.*Traffic)`)
	weeklyMetricsRe = regexp.MustCompile(`(?i)(Current\s+Week\s+Totals|Year\s+Ago\s*-|Per\s+Project\s+Average|^\s*%\s*Change)`)
	yearlyRe        = regexp.MustCompile(`(?i)(Yearly\s+Comparison|Avg\.?\s+Weekly\s+Per\s+Year)`)
	projectHeadRe   = regexp.MustCompile(`(?i)Development\s+Name\s+Developer\s+City\s+Code`)
	totalsRe        = regexp.MustCompile(`(?i)^\s*(GRAND\s+)?TOTALS:`)
	mlsRe           = regexp.MustCompile(`(?i)Monthly\s+MLS\s+Survey`)
	cityCodesRe     = regexp.MustCompile(`(?i)City\s+Codes:`)
)

// recognizer pairs a section kind with its header test. Order is priority:
// most specific phrases first, so a line matching several recognizers is
// claimed by the earliest.
type recognizer struct {
	kind  Kind
	match func(string) bool
}

var recognizers = []recognizer{
	{KindMLSSurvey, mlsRe.MatchString},
	{KindCityCodes, cityCodesRe.MatchString},
	{KindProjectTotals, totalsRe.MatchString},
	{KindProjectStats, projectHeadRe.MatchString},
	{KindYearlyComparison, yearlyRe.MatchString},
	{KindWeeklyMetrics, weeklyMetricsRe.MatchString},
	{KindCountySummary, countyHeaderRe.MatchString},
	{KindHeader, headerRe.MatchString},
}

// Classify returns the section kind whose header recognizer claims the
// line, or KindUnknown when none does.
func Classify(text string) Kind {
	for _, r := range recognizers {
		if r.match(text) {
			return r.kind
		}
	}
	return KindUnknown
}

// Segment consumes the full line sequence once and emits ordered section
// runs covering the document. Lines preceding the first recognized header
// are dropped. An empty run (header with zero data rows) is valid.
func Segment(lines []source.Line) []Run {
	var runs []Run
	current := -1

	for _, line := range lines {
		if kind := Classify(line.Text); kind != KindUnknown {
			// WeeklyMetrics headers recur per labeled row; keep extending
			// the open run instead of starting a new one per row.
			if current >= 0 && runs[current].Kind == kind && coalesces(kind) {
				runs[current].Lines = append(runs[current].Lines, line)
				continue
			}
			runs = append(runs, Run{Kind: kind, Lines: []source.Line{line}})
			current = len(runs) - 1
			continue
		}
		if current < 0 {
			continue // unclassified preamble
		}
		if strings.TrimSpace(line.Text) == "" && closesOnBlank(runs[current].Kind) {
			current = -1
			continue
		}
		runs[current].Lines = append(runs[current].Lines, line)
	}
	return runs
}

// coalesces reports whether consecutive headers of the same kind extend one
// run rather than opening a new one.
func coalesces(k Kind) bool {
	switch k {
	case KindWeeklyMetrics, KindCityCodes, KindProjectTotals:
		return true
	}
	return false
}

// closesOnBlank reports whether a blank line terminates the section instead
// of being swallowed into it. Single-line sections stop at the first blank
// so trailing page furniture is not attributed to them.
func closesOnBlank(k Kind) bool {
	switch k {
	case KindProjectTotals, KindCityCodes:
		return true
	}
	return false
}
