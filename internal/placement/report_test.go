package placement

import (
	"context"
	"testing"
)

func TestBuildReportGroupsAndSums(t *testing.T) {
	records := []PlacementRecord{
		{CompanyID: "c1", CompanyName: "Acme", Year: 2024, TotalPlaced: 5},
		{CompanyID: "c2", CompanyName: "Initech", Year: 2024, TotalPlaced: 9},
		{CompanyID: "c1", CompanyName: "Acme", Year: 2024, TotalPlaced: 3},
		{CompanyID: "c1", CompanyName: "Acme", Year: 2023, TotalPlaced: 4},
	}

	report := BuildReport(records)

	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 grouped rows, got %d", len(report.Rows))
	}
	// Two 2024 Acme records collapse into one row of 8; rows come back
	// sorted by total descending.
	if report.Rows[0].CompanyName != "Initech" || report.Rows[0].TotalPlaced != 9 {
		t.Fatalf("unexpected top row: %+v", report.Rows[0])
	}
	if report.Rows[1].CompanyID != "c1" || report.Rows[1].Year != 2024 || report.Rows[1].TotalPlaced != 8 {
		t.Fatalf("Acme 2024 rows not summed: %+v", report.Rows[1])
	}
	if report.OverallTotal != 21 {
		t.Fatalf("overall total = %d, want 21", report.OverallTotal)
	}
	if report.Top == nil || report.Top.CompanyName != "Initech" {
		t.Fatalf("unexpected top company: %+v", report.Top)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	if len(report.Rows) != 0 || report.OverallTotal != 0 || report.Top != nil {
		t.Fatalf("empty input must produce empty report: %+v", report)
	}
}

func TestBuildReportTieBrokenByName(t *testing.T) {
	records := []PlacementRecord{
		{CompanyID: "c2", CompanyName: "Zeta", Year: 2024, TotalPlaced: 4},
		{CompanyID: "c1", CompanyName: "Acme", Year: 2024, TotalPlaced: 4},
	}
	report := BuildReport(records)
	if report.Rows[0].CompanyName != "Acme" {
		t.Fatalf("tie must be broken by name, got %+v", report.Rows)
	}
}

func TestPlacementReportYearFilter(t *testing.T) {
	svc, companies, _, records := newTestService()
	ctx := context.Background()
	c := Company{Name: "Acme"}
	if err := companies.Create(ctx, &c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seed := []PlacementRecord{
		{CompanyID: c.ID, CompanyName: c.Name, Year: 2023, TotalPlaced: 2},
		{CompanyID: c.ID, CompanyName: c.Name, Year: 2024, TotalPlaced: 7},
	}
	for i := range seed {
		if err := records.Add(ctx, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	year := 2024
	report, err := svc.PlacementReport(ctx, &year)
	if err != nil {
		t.Fatalf("PlacementReport: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Year != 2024 || report.OverallTotal != 7 {
		t.Fatalf("year filter not applied: %+v", report)
	}
	// The year list ignores the filter so the view can offer every year.
	if len(report.Years) != 2 || report.Years[0] != 2024 || report.Years[1] != 2023 {
		t.Fatalf("years = %v, want [2024 2023]", report.Years)
	}
}
