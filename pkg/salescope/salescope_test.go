package salescope

import (
	"context"
	"errors"
	"testing"

	"github.com/marketpulse/salescope/pkg/salescope/internalerr"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
	"github.com/marketpulse/salescope/pkg/salescope/store/memstore"
)

func fullDocument() []source.Line {
	return source.FromStrings([]string{
		"Ryness Weekly Report",
		"Week 12 Ending: September 28, 2025",
		"Bay Area",
		"Weekly Sales Summary",
		"Alameda 12 210 31 2 29 1.4 1.3 +3% 1.2 +5%",
		"Contra Costa 9 180 22 (1) 21 1.1 1.0 -2% 1.1 NC",
		"Current Week Totals Traffic : Sales 412 : 51 98 412 51 4 47 1.2 1.1 +4% 1.0 +6%",
		"% Change +8% -3% +16% NC +12% +4% -1% +2%",
		"Yearly Comparison",
		"2024 98.7 402.6 48.2 3.8 1.2 1.3",
		"2025 97.0 410.3 50.1 4.0 1.2",
		"Development Name Developer City Code Notes Type",
		"Alameda | Projects Participating: 12",
		"The Glen  Shea Homes  DUB  models open  SFD  120 0 14 31 3 0 88 40 1.5 1.3",
		"TOTALS: No. Reporting: 12 Avg. Sales: 1.5 Traffic to Sales: 7 : 1 Net: 29",
		"",
		"City Codes: DUB = Dublin, LIV = Livermore",
		"",
		"Monthly MLS Survey - Alameda County",
		"Jan-25 550 42 210 31 180 985,000",
	})
}

func TestIngestFullDocument(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	eng := New(Options{Store: st, IngestID: "01HZXW8Q2M3N4P5R6S7T8V9W0X"})
	defer eng.Close()

	sum, err := eng.Ingest(ctx, "wk12.pdf", fullDocument())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if sum.Identity.WeekEnding != "2025-09-28" || sum.Identity.Region != "Bay Area" {
		t.Errorf("identity = %+v", sum.Identity)
	}
	if !sum.Identity.ByContent() {
		t.Error("document with week and region should key by content")
	}

	want := store.Counts{
		CountySummaries:   2,
		WeeklyMetrics:     2,
		YearlyComparisons: 2,
		ProjectStats:      1,
		ProjectTotals:     1,
		MLSSurveys:        1,
		CityCodes:         2,
	}
	if sum.Counts != want {
		t.Errorf("counts = %+v, want %+v", sum.Counts, want)
	}
	if len(sum.Warnings) != 0 {
		t.Errorf("clean document should produce no warnings: %v", sum.Warnings)
	}

	report, found, err := st.GetReportByIdentity(ctx, sum.Identity)
	if err != nil || !found {
		t.Fatalf("report lookup: found=%v err=%v", found, err)
	}
	if report.IngestID != "01HZXW8Q2M3N4P5R6S7T8V9W0X" {
		t.Errorf("ingest id = %q", report.IngestID)
	}
	if !report.WeekNum.Valid || report.WeekNum.Int64 != 12 {
		t.Errorf("week num = %+v", report.WeekNum)
	}

	stats, err := st.ProjectStatsResolved(ctx, sum.ReportID)
	if err != nil {
		t.Fatalf("ProjectStatsResolved: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d project rows", len(stats))
	}
	if !stats[0].CountyGroup.Valid || stats[0].CountyGroup.String != "Alameda" {
		t.Errorf("group = %+v", stats[0].CountyGroup)
	}
	if !stats[0].CityName.Valid || stats[0].CityName.String != "Dublin" {
		t.Errorf("city name should resolve via legend, got %+v", stats[0].CityName)
	}
}

func TestIngestIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	eng := New(Options{Store: st})

	if _, err := eng.Ingest(ctx, "wk12.pdf", fullDocument()); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	// Same week and region under a corrected filename supersedes.
	sum2, err := eng.Ingest(ctx, "wk12-corrected.pdf", fullDocument())
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	reports, err := st.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("re-ingest must replace, not duplicate: %d reports", len(reports))
	}
	if reports[0].ID != sum2.ReportID {
		t.Errorf("surviving report = %d, want %d", reports[0].ID, sum2.ReportID)
	}
}

func TestIngestFilenamePolicy(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	eng := New(Options{Store: st, IdentityPolicy: store.PolicyFilename})

	sum, err := eng.Ingest(ctx, "wk12.pdf", fullDocument())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.Identity.ByContent() {
		t.Error("filename policy must not resolve by content")
	}

	// A different filename is a different report under this policy.
	if _, err := eng.Ingest(ctx, "wk12-copy.pdf", fullDocument()); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	reports, _ := st.ListReports(ctx, 10)
	if len(reports) != 2 {
		t.Errorf("filename policy should keep both, got %d", len(reports))
	}
}

func TestIngestNoHeader(t *testing.T) {
	eng := New(Options{Store: memstore.New()})

	lines := source.FromStrings([]string{
		"Weekly Sales Summary",
		"Alameda 12 210 31 2 29 1.4 1.3 +3% 1.2 +5%",
	})
	_, err := eng.Ingest(context.Background(), "headless.pdf", lines)
	if !errors.Is(err, internalerr.ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	eng := New(Options{Store: memstore.New()})

	_, err := eng.Ingest(context.Background(), "blank.pdf", nil)
	if !errors.Is(err, internalerr.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestIngestHonorsCancel(t *testing.T) {
	eng := New(Options{Store: memstore.New()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Ingest(ctx, "wk12.pdf", fullDocument())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
