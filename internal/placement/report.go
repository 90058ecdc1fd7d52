package placement

import (
	"context"
	"sort"
)

// PlacementReport aggregates raw records into the summary view: grouped by
// (company, year), totals summed, rows sorted descending by total. It is a
// pure read-side computation, recomputed from scratch per request.
func (s *Service) PlacementReport(ctx context.Context, year *int) (Report, error) {
	records, err := s.records.List(ctx, year)
	if err != nil {
		return Report{}, err
	}
	allYears, err := s.distinctYears(ctx)
	if err != nil {
		return Report{}, err
	}
	report := BuildReport(records)
	report.Years = allYears
	return report, nil
}

// distinctYears ignores the year filter so the view can offer the full
// range.
func (s *Service) distinctYears(ctx context.Context) ([]int, error) {
	records, err := s.records.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{})
	var years []int
	for _, rec := range records {
		if _, ok := seen[rec.Year]; ok {
			continue
		}
		seen[rec.Year] = struct{}{}
		years = append(years, rec.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// BuildReport groups records by (company, year) and sums their totals.
func BuildReport(records []PlacementRecord) Report {
	type key struct {
		companyID string
		year      int
	}
	grouped := make(map[key]*ReportRow)
	var order []key
	for _, rec := range records {
		k := key{companyID: rec.CompanyID, year: rec.Year}
		row, ok := grouped[k]
		if !ok {
			row = &ReportRow{CompanyID: rec.CompanyID, CompanyName: rec.CompanyName, Year: rec.Year}
			grouped[k] = row
			order = append(order, k)
		}
		row.TotalPlaced += rec.TotalPlaced
	}

	rows := make([]ReportRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *grouped[k])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPlaced != rows[j].TotalPlaced {
			return rows[i].TotalPlaced > rows[j].TotalPlaced
		}
		return rows[i].CompanyName < rows[j].CompanyName
	})

	report := Report{Rows: rows}
	for _, row := range rows {
		report.OverallTotal += row.TotalPlaced
	}
	if len(rows) > 0 {
		top := rows[0]
		report.Top = &top
	}
	return report
}
