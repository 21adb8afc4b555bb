// Package citycode resolves the short city codes used by project rows
// against the legend parsed from the same report. The mapping is scoped
// per report; codes may be redefined between reports, so there is no
// global registry.
package citycode

import (
	"strings"

	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Resolver is a read-only code-to-name lookup built from one report's
// city-code records. Storage keeps raw codes and the join is redone at
// query time; this cache exists for callers wanting the name during
// ingestion, e.g. to warn on unknown codes.
type Resolver struct {
	names map[string]string
}

// NewResolver builds a resolver from a report's parsed legend. The first
// definition of a code wins, matching the source's reading order.
func NewResolver(codes []store.CityCode) *Resolver {
	names := make(map[string]string, len(codes))
	for _, cc := range codes {
		key := Normalize(cc.Code)
		if key == "" {
			continue
		}
		if _, dup := names[key]; !dup {
			names[key] = cc.Name
		}
	}
	return &Resolver{names: names}
}

// Resolve returns the city name for a code. Unknown codes return ok ==
// false; that is a diagnostic for the caller, never a failure.
func (r *Resolver) Resolve(code string) (string, bool) {
	name, ok := r.names[Normalize(code)]
	return name, ok
}

// Len returns the number of known codes.
func (r *Resolver) Len() int {
	return len(r.names)
}

// Normalize reduces a raw code cell to its canonical form: the leading run
// of one to four letters, upper-cased. Trailing annotations are dropped.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	end := 0
	for end < len(text) && end < 4 {
		ch := text[end]
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
			break
		}
		end++
	}
	if end == 0 {
		return strings.ToUpper(text)
	}
	return strings.ToUpper(text[:end])
}

// LooksLikeCode reports whether a column value has the shape of a city
// code: one to four letters, nothing else.
func LooksLikeCode(raw string) bool {
	text := strings.TrimSpace(raw)
	if len(text) < 1 || len(text) > 4 {
		return false
	}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
			return false
		}
	}
	return true
}
