package parse

import (
	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// countyTail is the numeric cluster trailing every county summary row:
// projects traffic sales cancels net avg ytd ytd% prev13 prev13%.
const countyTail = 10

// ParseCountySummary parses one county-group roll-up per data row. The
// group name is everything left of the numeric tail, so multi-word groups
// ("Contra Costa") need no special casing.
func ParseCountySummary(run []source.Line, c *coerce.Coercer) ([]store.CountySummary, []Warning) {
	var (
		rows     []store.CountySummary
		warnings []Warning
	)

	for i, line := range run {
		if i == 0 || segment.Classify(line.Text) != segment.KindUnknown {
			continue // section header or a stray column-caption line
		}
		fields := fieldsIndex(line.Text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < countyTail+1 {
			warnings = append(warnings, Warning{
				Section: segment.KindCountySummary.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "expected county name plus 10 numeric fields",
			})
			continue
		}

		tail := fields[len(fields)-countyTail:]
		name := c.Text(line.Text[:tail[0].start])
		if name == "" {
			warnings = append(warnings, Warning{
				Section: segment.KindCountySummary.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "county group is empty",
			})
			continue
		}

		rows = append(rows, store.CountySummary{
			CountyGroup: name,
			Projects:    store.NullInt(c.Int(tail[0].word)),
			Traffic:     store.NullInt(c.Int(tail[1].word)),
			Sales:       store.NullInt(c.Int(tail[2].word)),
			Cancels:     store.NullInt(c.Int(tail[3].word)),
			NetSales:    store.NullInt(c.Int(tail[4].word)),
			AvgSales:    store.NullFloat(c.Float(tail[5].word)),
			YTDAvg:      store.NullFloat(c.Float(tail[6].word)),
			YTDDiff:     c.Delta(tail[7].word),
			Prev13Avg:   store.NullFloat(c.Float(tail[8].word)),
			Prev13Diff:  c.Delta(tail[9].word),
		})
	}
	return rows, warnings
}
