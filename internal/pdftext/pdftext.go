// Package pdftext extracts positioned text lines from PDF documents.
package pdftext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/marketpulse/salescope/pkg/salescope/source"
)

// yTolerance groups fragments whose baselines differ by less than this
// many points into one visual line.
const yTolerance = 2.0

// columnGap is the horizontal whitespace, in points, treated as a column
// boundary rather than a word space.
const columnGap = 8.0

// ExtractLines reads a PDF and reconstructs its visual lines in reading
// order. Fragments sharing a baseline are joined left to right; wide gaps
// become double spaces so column boundaries survive into plain text.
func ExtractLines(path string) ([]source.Line, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var lines []source.Line
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, pageLines(page, i)...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no text in %s: scanned or image-based pdf", path)
	}
	return lines, nil
}

func pageLines(page pdf.Page, pageNum int) []source.Line {
	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}

	// Baseline-major, then left to right. PDF y grows upward, so larger
	// y comes first.
	sort.SliceStable(texts, func(i, j int) bool {
		if di := texts[i].Y - texts[j].Y; di > yTolerance || di < -yTolerance {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var (
		lines   []source.Line
		sb      strings.Builder
		lineY   float64
		lineX   float64
		prevEnd float64
		open    bool
	)

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimRight(sb.String(), " ")
		if strings.TrimSpace(text) != "" {
			lines = append(lines, source.Line{Text: text, Page: pageNum, X: lineX})
		}
		sb.Reset()
		open = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if open && (lineY-t.Y > yTolerance || t.Y-lineY > yTolerance) {
			flush()
		}
		if !open {
			lineY, lineX, prevEnd = t.Y, t.X, t.X
			open = true
		} else {
			gap := t.X - prevEnd
			if gap > columnGap {
				sb.WriteString("  ")
			} else if gap > 0.5 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	flush()

	return lines
}
