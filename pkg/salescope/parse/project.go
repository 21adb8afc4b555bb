package parse

import (
	"regexp"

	"github.com/marketpulse/salescope/pkg/salescope/citycode"
	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// projectTail is the numeric cluster trailing every project row: units,
// new release, released remaining, traffic, weekly sales, weekly cancels,
// sold to date, sold YTD, avg sales/week, avg sales YTD.
const projectTail = 10

var (
	groupHeaderRe   = regexp.MustCompile(`^\s*(.+?)\s+\|\s+(.+)$`)
	participatingRe = regexp.MustCompile(`(?i)Projects\s+Participating:\s*(\d+)`)
	furnitureRe     = regexp.MustCompile(`(?i)^\s*(Project\s+Types:|Page\s+\d+)`)
)

// ParseProjectStats parses development line items. Group-header rows (the
// "<group> | <caption>" shape) update the Context rather than emitting a
// record; data rows inherit the active group from it. City codes are kept
// raw; name resolution happens against the report's legend at read time.
func ParseProjectStats(run []source.Line, ctx *Context, c *coerce.Coercer) ([]store.ProjectStat, []Warning) {
	var (
		rows     []store.ProjectStat
		warnings []Warning
	)

	for i, line := range run {
		text := line.Text
		if i == 0 || segment.Classify(text) != segment.KindUnknown || furnitureRe.MatchString(text) {
			continue
		}
		if m := groupHeaderRe.FindStringSubmatch(text); m != nil {
			ctx.SetGroup(c.Text(m[1]))
			if p := participatingRe.FindStringSubmatch(m[2]); p != nil {
				if n, ok := c.Int(p[1]); ok {
					ctx.SetParticipating(n)
				}
			}
			continue
		}

		fields := fieldsIndex(text)
		if len(fields) == 0 {
			continue
		}

		tailStart := numericTailStart(fields, c)
		if len(fields)-tailStart != projectTail {
			warnings = append(warnings, Warning{
				Section: segment.KindProjectStats.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "expected 10 numeric columns after the project description",
			})
			continue
		}
		if tailStart == 0 {
			warnings = append(warnings, Warning{
				Section: segment.KindProjectStats.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "project row has no development name",
			})
			continue
		}

		row := store.ProjectStat{ProjectsParticipating: ctx.Participating()}
		if group, ok := ctx.Group(); ok {
			row.CountyGroup = store.NullStr(group)
		}
		assignProjectHead(&row, text[:fields[tailStart].start], c)
		if row.DevelopmentName == "" {
			warnings = append(warnings, Warning{
				Section: segment.KindProjectStats.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "project row has no development name",
			})
			continue
		}

		tail := fields[tailStart:]
		row.Units = store.NullInt(c.Int(tail[0].word))
		row.NewRelease = store.NullInt(c.Int(tail[1].word))
		row.ReleasedRemaining = store.NullInt(c.Int(tail[2].word))
		row.Traffic = store.NullInt(c.Int(tail[3].word))
		row.WkSales = store.NullInt(c.Int(tail[4].word))
		row.WkCancels = store.NullInt(c.Int(tail[5].word))
		row.SoldToDate = store.NullInt(c.Int(tail[6].word))
		row.SoldYTD = store.NullInt(c.Int(tail[7].word))
		row.AvgSalesWeek = store.NullFloat(c.Float(tail[8].word))
		row.AvgSalesYTD = store.NullFloat(c.Float(tail[9].word))
		rows = append(rows, row)
	}
	return rows, warnings
}

// numericTailStart finds the first index of the run of trailing fields
// that coerce to numbers or null sentinels, capped at projectTail so a
// numeric word at the end of the notes column is not swallowed.
func numericTailStart(fields []span, c *coerce.Coercer) int {
	start := len(fields)
	for start > 0 && len(fields)-start < projectTail {
		word := fields[start-1].word
		if _, ok := c.Float(word); !ok && !isNullSentinel(word) {
			break
		}
		start--
	}
	return start
}

func isNullSentinel(word string) bool {
	switch word {
	case "-", "--", "*":
		return true
	}
	return false
}

// assignProjectHead splits the text left of the numeric tail into the
// description columns. Column boundaries are runs of two or more spaces;
// the city code is recognized by shape, and whatever sits between it and
// the trailing product type is free-text notes.
func assignProjectHead(row *store.ProjectStat, head string, c *coerce.Coercer) {
	cols := splitColumns(head)
	if len(cols) == 0 {
		return
	}
	row.DevelopmentName = c.Text(cols[0])
	cols = cols[1:]

	if len(cols) > 0 {
		row.Developer = c.Text(cols[0])
		cols = cols[1:]
	}
	if len(cols) > 0 && citycode.LooksLikeCode(cols[0]) {
		row.CityCode = citycode.Normalize(cols[0])
		cols = cols[1:]
	}
	switch len(cols) {
	case 0:
	case 1:
		row.ProductType = c.Text(cols[0])
	default:
		row.ProductType = c.Text(cols[len(cols)-1])
		notes := ""
		for _, col := range cols[:len(cols)-1] {
			if notes != "" {
				notes += " "
			}
			notes += col
		}
		row.Notes = c.Text(notes)
	}
}
