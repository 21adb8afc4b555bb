package memstore

import (
	"context"
	"testing"

	"github.com/marketpulse/salescope/pkg/salescope/store"
)

func TestReplaceSupersedesByContent(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	b := store.Bundle{
		Identity: store.Identity{
			Filename:   "a.pdf",
			WeekEnding: "2024-03-10",
			Region:     "Bay Area",
			Policy:     store.PolicyContent,
		},
		Report: store.Report{
			Filename:   "a.pdf",
			WeekEnding: store.NullStr("2024-03-10"),
			Region:     store.NullStr("Bay Area"),
		},
		ProjectStats: []store.ProjectStat{{DevelopmentName: "Sunrise Terrace"}},
	}
	if _, err := st.ReplaceReport(ctx, b); err != nil {
		t.Fatalf("first ReplaceReport: %v", err)
	}

	b.Identity.Filename = "a-v2.pdf"
	b.Report.Filename = "a-v2.pdf"
	id2, err := st.ReplaceReport(ctx, b)
	if err != nil {
		t.Fatalf("second ReplaceReport: %v", err)
	}

	reports, err := st.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != id2 {
		t.Fatalf("expected only the superseding report, got %+v", reports)
	}
}

func TestFilenameFallbackWhenNoWeek(t *testing.T) {
	ctx := context.Background()
	st := New()

	b := store.Bundle{
		Identity: store.Identity{Filename: "x.pdf", Policy: store.PolicyContent},
		Report:   store.Report{Filename: "x.pdf"},
	}
	if _, err := st.ReplaceReport(ctx, b); err != nil {
		t.Fatal(err)
	}
	if _, err := st.ReplaceReport(ctx, b); err != nil {
		t.Fatal(err)
	}

	reports, _ := st.ListReports(ctx, 10)
	if len(reports) != 1 {
		t.Fatalf("filename identity should dedupe, got %d reports", len(reports))
	}

	_, found, err := st.GetReportByIdentity(ctx, b.Identity)
	if err != nil || !found {
		t.Fatalf("GetReportByIdentity: found=%v err=%v", found, err)
	}
}

func TestResolvedStatsUnknownCode(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.ReplaceReport(ctx, store.Bundle{
		Identity: store.Identity{Filename: "r.pdf"},
		Report:   store.Report{Filename: "r.pdf"},
		ProjectStats: []store.ProjectStat{
			{DevelopmentName: "Oak Glen", CityCode: "FRE"},
			{DevelopmentName: "Cedar Walk", CityCode: "ZZZ"},
		},
		CityCodes: []store.CityCode{{Code: "FRE", Name: "Fremont"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	stats, err := st.ProjectStatsResolved(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows", len(stats))
	}
	if !stats[0].CityName.Valid || stats[0].CityName.String != "Fremont" {
		t.Errorf("known code: %+v", stats[0].CityName)
	}
	if stats[1].CityName.Valid {
		t.Errorf("unknown code should stay null: %+v", stats[1].CityName)
	}
}
