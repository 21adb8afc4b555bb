// Package parse turns classified section runs into typed records.
//
// One parser per section kind. Each consumes its line run together with the
// shared Context and Coercer, and emits zero or one record per input line.
// A line that fails to decompose into the expected field count is skipped
// and counted as a warning; parsers never abort the run.
package parse

import (
	"fmt"
	"strings"
	"unicode"
)

// Warning records a recovered row-level problem attributed to its source
// location. Warnings are diagnostics, not errors.
type Warning struct {
	Section string
	Page    int
	Line    int
	Reason  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s p%d l%d: %s", w.Section, w.Page, w.Line, w.Reason)
}

// span is one whitespace-delimited word with its byte offsets in the line.
type span struct {
	start int
	end   int
	word  string
}

// fieldsIndex splits on whitespace runs, keeping byte offsets so callers
// can cut the line at a field boundary.
func fieldsIndex(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start: start, end: i, word: text[start:i]})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(text), word: text[start:]})
	}
	return spans
}

// splitColumns splits on runs of two or more spaces, the column separator
// of the source's loosely aligned text layout.
func splitColumns(text string) []string {
	var cols []string
	for _, part := range strings.Split(text, "  ") {
		part = strings.TrimSpace(part)
		if part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}
