package parse

import (
	"regexp"
	"strings"

	"github.com/marketpulse/salescope/pkg/salescope/citycode"
	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

var (
	cityCodesTagRe = regexp.MustCompile(`(?i)City\s+Codes:\s*`)
	codePairRe     = regexp.MustCompile(`\b([A-Za-z]{1,4})\s*=\s*([^,]+)`)
)

// ParseCityCodes parses the code legend. Legend text may wrap across lines
// and repeat on multiple pages; all fragments are joined into one blob and
// "CODE = Name" pairs extracted from it, first definition winning.
func ParseCityCodes(run []source.Line, c *coerce.Coercer) ([]store.CityCode, []Warning) {
	var tails []string
	for _, line := range run {
		text := line.Text
		if loc := cityCodesTagRe.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
		if strings.TrimSpace(text) != "" {
			tails = append(tails, text)
		}
	}
	if len(tails) == 0 {
		return nil, nil
	}

	blob := c.Text(strings.Join(tails, " "))
	seen := make(map[string]struct{})
	var rows []store.CityCode
	for _, m := range codePairRe.FindAllStringSubmatch(blob, -1) {
		code := citycode.Normalize(m[1])
		name := c.Text(m[2])
		if code == "" || name == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		rows = append(rows, store.CityCode{Code: code, Name: name})
	}
	return rows, nil
}
