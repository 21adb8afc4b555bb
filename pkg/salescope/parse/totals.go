package parse

import (
	"regexp"

	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

var (
	totalsLineRe     = regexp.MustCompile(`(?i)^\s*(GRAND\s+)?TOTALS:`)
	noReportingRe    = regexp.MustCompile(`(?i)No\.?\s+Reporting:\s*(\d+)`)
	totalsAvgRe      = regexp.MustCompile(`(?i)Avg\.?\s+Sales:\s*([\d.]+)`)
	trafficToSalesRe = regexp.MustCompile(`(?i)Traffic\s+to\s+Sales:\s*([0-9\s:]+)`)
	netRe            = regexp.MustCompile(`(?i)Net:\s*\(?\s*(-?\d+)\s*\)?`)
)

// ParseProjectTotals parses the subtotal lines that close each county
// group's project table. The group comes from the Context; a grand-total
// line at the end of the document carries a null group once the carrier
// is reset by the caller, or the last group otherwise, matching source
// order semantics.
func ParseProjectTotals(run []source.Line, ctx *Context, c *coerce.Coercer) ([]store.ProjectTotal, []Warning) {
	var rows []store.ProjectTotal

	for _, line := range run {
		if !totalsLineRe.MatchString(line.Text) {
			continue
		}
		row := store.ProjectTotal{}
		if group, ok := ctx.Group(); ok {
			row.CountyGroup = store.NullStr(group)
		}
		if m := noReportingRe.FindStringSubmatch(line.Text); m != nil {
			row.NoReporting = store.NullInt(c.Int(m[1]))
		}
		if m := totalsAvgRe.FindStringSubmatch(line.Text); m != nil {
			row.AvgSales = store.NullFloat(c.Float(m[1]))
		}
		if m := trafficToSalesRe.FindStringSubmatch(line.Text); m != nil {
			row.TrafficToSales = c.Text(m[1])
		}
		if m := netRe.FindStringSubmatch(line.Text); m != nil {
			row.NetSales = store.NullInt(c.Int(m[1]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
