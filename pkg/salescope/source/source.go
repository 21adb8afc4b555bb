// Package source defines the line stream consumed by the ingestion engine.
package source

import (
	"bufio"
	"io"
	"strings"
)

// Line is one row of report text with its page and approximate horizontal
// position. Lines arrive top-to-bottom, left-to-right within a page.
type Line struct {
	Text string
	Page int
	X    float64
}

// FromReader reads plain text into lines. A form feed marks a page break.
// Leading indentation is preserved in X so section parsers can use it as a
// column hint, mirroring what positioned extraction reports for PDFs.
func FromReader(r io.Reader) ([]Line, error) {
	var lines []Line
	page := 1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		for strings.Contains(text, "\f") {
			before, after, _ := strings.Cut(text, "\f")
			if strings.TrimSpace(before) != "" {
				lines = append(lines, Line{Text: before, Page: page, X: indent(before)})
			}
			page++
			text = after
		}
		lines = append(lines, Line{Text: text, Page: page, X: indent(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// FromStrings wraps raw strings as single-page lines, for tests and callers
// that already hold extracted text.
func FromStrings(rows []string) []Line {
	lines := make([]Line, len(rows))
	for i, row := range rows {
		lines[i] = Line{Text: row, Page: 1, X: indent(row)}
	}
	return lines
}

func indent(text string) float64 {
	n := 0
	for _, r := range text {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 8
		} else {
			break
		}
	}
	return float64(n)
}
