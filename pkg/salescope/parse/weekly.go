package parse

import (
	"regexp"

	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Labels for the four row shapes of the weekly trend table.
const (
	LabelCurrentWeek       = "current_week_totals"
	LabelYearAgo           = "year_ago"
	LabelPerProjectAverage = "per_project_average"
	LabelPercentChange     = "percent_change"
)

var (
	currentWeekRe = regexp.MustCompile(`(?i)Current\s+Week\s+Totals\s+Traffic\s*:\s*Sales\s+(\d+)\s*:\s*(\d+)\s+(.+)$`)
	yearAgoRe     = regexp.MustCompile(`(?i)Year\s+Ago\s*-\s*(\S+)\s+Traffic\s*:\s*Sales\s+(\d+)\s*:\s*(\d+)\s+(.+)$`)
	perProjectRe  = regexp.MustCompile(`(?i)Per\s+Project\s+Average\s+(.+)$`)
	pctChangeRe   = regexp.MustCompile(`(?i)^\s*%\s*Change\s+(.+)$`)
)

// ParseWeeklyMetrics parses the region-wide trend rows: current week
// totals, the year-ago comparison, the per-project average, and the
// percent-change row. Each labeled shape appears at most once.
func ParseWeeklyMetrics(run []source.Line, c *coerce.Coercer) ([]store.WeeklyMetric, []Warning) {
	var (
		rows     []store.WeeklyMetric
		warnings []Warning
	)
	seen := make(map[string]bool)

	warn := func(line source.Line, i int, reason string) {
		warnings = append(warnings, Warning{
			Section: segment.KindWeeklyMetrics.String(),
			Page:    line.Page,
			Line:    i,
			Reason:  reason,
		})
	}

	for i, line := range run {
		switch {
		case currentWeekRe.MatchString(line.Text):
			if seen[LabelCurrentWeek] {
				continue
			}
			m := currentWeekRe.FindStringSubmatch(line.Text)
			row, ok := numericCluster(m[3], c)
			if !ok {
				warn(line, i, "current week totals row has wrong field count")
				continue
			}
			row.Label = LabelCurrentWeek
			row.TrafficToSales = m[1] + " : " + m[2]
			rows = append(rows, row)
			seen[LabelCurrentWeek] = true

		case yearAgoRe.MatchString(line.Text):
			if seen[LabelYearAgo] {
				continue
			}
			m := yearAgoRe.FindStringSubmatch(line.Text)
			row, ok := numericCluster(m[4], c)
			if !ok {
				warn(line, i, "year-ago row has wrong field count")
				continue
			}
			row.Label = LabelYearAgo
			row.TrafficToSales = m[2] + " : " + m[3]
			if d, ok := c.Date(m[1]); ok {
				row.AsOfDate = store.NullStr(d.Format("2006-01-02"))
			}
			rows = append(rows, row)
			seen[LabelYearAgo] = true

		case perProjectRe.MatchString(line.Text):
			if seen[LabelPerProjectAverage] {
				continue
			}
			m := perProjectRe.FindStringSubmatch(line.Text)
			fields := fieldsIndex(m[1])
			if len(fields) != 4 {
				warn(line, i, "per-project average row has wrong field count")
				continue
			}
			rows = append(rows, store.WeeklyMetric{
				Label:    LabelPerProjectAverage,
				Traffic:  store.NullFloat(c.Float(fields[0].word)),
				Sales:    store.NullFloat(c.Float(fields[1].word)),
				Cancels:  store.NullFloat(c.Float(fields[2].word)),
				NetSales: store.NullFloat(c.Float(fields[3].word)),
			})
			seen[LabelPerProjectAverage] = true

		case pctChangeRe.MatchString(line.Text):
			if seen[LabelPercentChange] {
				continue
			}
			m := pctChangeRe.FindStringSubmatch(line.Text)
			fields := fieldsIndex(m[1])
			if len(fields) != 8 {
				warn(line, i, "percent-change row has wrong field count")
				continue
			}
			rows = append(rows, store.WeeklyMetric{
				Label:        LabelPercentChange,
				ProjectsDiff: c.Delta(fields[0].word),
				TrafficDiff:  c.Delta(fields[1].word),
				SalesDiff:    c.Delta(fields[2].word),
				CancelsDiff:  c.Delta(fields[3].word),
				NetSalesDiff: c.Delta(fields[4].word),
				AvgSalesDiff: c.Delta(fields[5].word),
				YTDDiff:      c.Delta(fields[6].word),
				Prev13Diff:   c.Delta(fields[7].word),
			})
			seen[LabelPercentChange] = true
		}
	}
	return rows, warnings
}

// numericCluster parses the shared tail of the totals rows:
// projects traffic sales cancels net avg ytd ytd% prev13 prev13%.
func numericCluster(tail string, c *coerce.Coercer) (store.WeeklyMetric, bool) {
	fields := fieldsIndex(tail)
	if len(fields) != 10 {
		return store.WeeklyMetric{}, false
	}
	return store.WeeklyMetric{
		Projects:   store.NullFloat(c.Float(fields[0].word)),
		Traffic:    store.NullFloat(c.Float(fields[1].word)),
		Sales:      store.NullFloat(c.Float(fields[2].word)),
		Cancels:    store.NullFloat(c.Float(fields[3].word)),
		NetSales:   store.NullFloat(c.Float(fields[4].word)),
		AvgSales:   store.NullFloat(c.Float(fields[5].word)),
		YTDAvg:     store.NullFloat(c.Float(fields[6].word)),
		YTDDiff:    c.Delta(fields[7].word),
		Prev13Avg:  store.NullFloat(c.Float(fields[8].word)),
		Prev13Diff: c.Delta(fields[9].word),
	}, true
}
