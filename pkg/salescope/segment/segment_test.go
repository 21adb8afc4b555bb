package segment

import (
	"testing"

	"github.com/marketpulse/salescope/pkg/salescope/source"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"Week 12 Ending: September 28, 2025", KindHeader},
		{"Weekly Sales Summary", KindCountySummary},
		{"County Group      Projects  Traffic  Sales", KindCountySummary},
		{"Current Week Totals Traffic : Sales 412 : 51", KindWeeklyMetrics},
		{"Year Ago - 09/29/2024 Traffic : Sales 380 : 44", KindWeeklyMetrics},
		{"Per Project Average 8 1.2 0.3 0.9", KindWeeklyMetrics},
		{"% Change +8% -3% +16% NC +12% +4% -1% +2%", KindWeeklyMetrics},
		{"Yearly Comparison", KindYearlyComparison},
		{"Development Name Developer City Code Notes Type", KindProjectStats},
		{"TOTALS: No. Reporting: 12 Avg. Sales: 1.3", KindProjectTotals},
		{"GRAND TOTALS: No. Reporting: 98", KindProjectTotals},
		{"Monthly MLS Survey - Alameda County", KindMLSSurvey},
		{"City Codes: ALA = Alameda, BER = Berkeley", KindCityCodes},
		{"The Glen at Tassajara  Shea Homes  DUB", KindUnknown},
		{"", KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %v; want %v", tc.text, got, tc.want)
		}
	}
}

func TestSegmentOrderedRuns(t *testing.T) {
	lines := source.FromStrings([]string{
		"Ryness Weekly Report", // unclassified preamble, dropped
		"Week 12 Ending: September 28, 2025",
		"Bay Area",
		"Weekly Sales Summary",
		"Alameda 12 210 31 2 29 1.4 1.3 +3% 1.2 +5%",
		"Contra Costa 9 180 22 1 21 1.1 1.0 -2% 1.1 NC",
		"Development Name Developer City Code Notes Type",
		"Alameda | Projects Participating: 12",
		"The Glen  Shea Homes  DUB  SFD 120 0 14 31 3 0 88 40 1.5 1.3",
		"TOTALS: No. Reporting: 12 Avg. Sales: 1.5 Traffic to Sales: 7 : 1 Net: 29",
		"",
		"City Codes: DUB = Dublin, LIV = Livermore",
		"",
		"Monthly MLS Survey - Alameda County",
		"Jan-25 550 42 210 31 180 985000",
	})

	runs := Segment(lines)

	wantKinds := []Kind{
		KindHeader,
		KindCountySummary,
		KindProjectStats,
		KindProjectTotals,
		KindCityCodes,
		KindMLSSurvey,
	}
	if len(runs) != len(wantKinds) {
		t.Fatalf("got %d runs, want %d: %+v", len(runs), len(wantKinds), kindsOf(runs))
	}
	for i, want := range wantKinds {
		if runs[i].Kind != want {
			t.Errorf("run %d kind = %v; want %v", i, runs[i].Kind, want)
		}
	}

	if n := len(runs[1].Lines); n != 3 { // header + 2 county rows
		t.Errorf("county summary run has %d lines; want 3", n)
	}
	if n := len(runs[2].Lines); n != 3 { // column header + group header + 1 project
		t.Errorf("project stats run has %d lines; want 3", n)
	}
}

func TestSegmentEmptySection(t *testing.T) {
	lines := source.FromStrings([]string{
		"Week 1 Ending: 01/05/2025",
		"Monthly MLS Survey - Solano County",
	})

	runs := Segment(lines)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[1].Kind != KindMLSSurvey || len(runs[1].Lines) != 1 {
		t.Errorf("empty MLS section should still produce a run with only its header")
	}
}

func TestSegmentCoalescesWeeklyMetricRows(t *testing.T) {
	lines := source.FromStrings([]string{
		"Week 2 Ending: 01/12/2025",
		"Current Week Totals Traffic : Sales 412 : 51 98 412 51 4 47 1.2 1.1 +4% 1.0 +6%",
		"Year Ago - 01/14/2024 Traffic : Sales 380 : 44 95 380 44 6 38 1.0 1.0 NC 0.9 +3%",
		"% Change +8% -3% +16% NC +12% +4% -1% +2%",
	})

	runs := Segment(lines)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2 (header + one weekly metrics run): %+v", len(runs), kindsOf(runs))
	}
	if runs[1].Kind != KindWeeklyMetrics || len(runs[1].Lines) != 3 {
		t.Errorf("weekly metric rows should coalesce into one run, got %d lines", len(runs[1].Lines))
	}
}

func kindsOf(runs []Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Kind.String()
	}
	return out
}
