package parse

import (
	"regexp"
	"strings"

	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

var (
	mlsHeaderRe = regexp.MustCompile(`(?i)Monthly\s+MLS\s+Survey`)
	monthKeyRe  = regexp.MustCompile(`^[A-Za-z]{3}-\d{2}$`)
)

// ParseMLSSurvey parses one market's monthly MLS listing table. The market
// name is the survey header line itself; data rows are keyed by a Mon-YY
// month and carry six integer statistics.
func ParseMLSSurvey(run []source.Line, c *coerce.Coercer) ([]store.MLSSurvey, []Warning) {
	var (
		rows     []store.MLSSurvey
		warnings []Warning
	)

	market := "Unknown Market"
	for _, line := range run {
		if mlsHeaderRe.MatchString(line.Text) {
			market = strings.TrimSpace(line.Text)
			break
		}
	}

	for i, line := range run {
		if segment.Classify(line.Text) != segment.KindUnknown {
			continue
		}
		fields := fieldsIndex(line.Text)
		if len(fields) == 0 || !monthKeyRe.MatchString(fields[0].word) {
			continue // captions and blank rows
		}
		if len(fields) != 7 {
			warnings = append(warnings, Warning{
				Section: segment.KindMLSSurvey.String(),
				Page:    line.Page,
				Line:    i,
				Reason:  "month row needs six statistics",
			})
			continue
		}
		rows = append(rows, store.MLSSurvey{
			MarketName: market,
			Month:      fields[0].word,
			Active:     store.NullInt(c.Int(fields[1].word)),
			ActiveDOM:  store.NullInt(c.Int(fields[2].word)),
			Pending:    store.NullInt(c.Int(fields[3].word)),
			PendingDOM: store.NullInt(c.Int(fields[4].word)),
			Closed:     store.NullInt(c.Int(fields[5].word)),
			AvgPrice:   store.NullInt(c.Int(fields[6].word)),
		})
	}
	return rows, warnings
}
