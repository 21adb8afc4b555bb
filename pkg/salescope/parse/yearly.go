package parse

import (
	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// ParseYearlyComparison parses the multi-year comparison block. Each data
// row starts with a four-digit year followed by the yearly weekly averages
// and, when present, the per-project and year-end sales averages.
func ParseYearlyComparison(run []source.Line, c *coerce.Coercer) ([]store.YearlyComparison, []Warning) {
	var (
		rows     []store.YearlyComparison
		warnings []Warning
	)

	for i, line := range run {
		if i == 0 || segment.Classify(line.Text) != segment.KindUnknown {
			continue
		}
		fields := fieldsIndex(line.Text)
		if len(fields) == 0 {
			continue
		}

		year, ok := c.Int(fields[0].word)
		if !ok || year < 1900 || year > 2200 {
			continue // caption row, not a year line
		}
		if len(fields) < 5 {
			warnings = append(warnings, Warning{
				Section: segment.KindYearlyComparison.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "year row needs at least four averages",
			})
			continue
		}

		row := store.YearlyComparison{
			Year:              year,
			AvgWeeklyProjects: store.NullFloat(c.Float(fields[1].word)),
			AvgWeeklyTraffic:  store.NullFloat(c.Float(fields[2].word)),
			AvgWeeklySales:    store.NullFloat(c.Float(fields[3].word)),
			AvgWeeklyCancels:  store.NullFloat(c.Float(fields[4].word)),
		}
		if len(fields) > 5 {
			row.AvgProjectSales = store.NullFloat(c.Float(fields[5].word))
		}
		if len(fields) > 6 {
			row.YearEndAvgProjSales = store.NullFloat(c.Float(fields[6].word))
		}
		rows = append(rows, row)
	}
	return rows, warnings
}
