package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"cpms.org/internal/placement"
)

// WriteReportPDF renders the placement report as a one-page table.
func WriteReportPDF(w io.Writer, report placement.Report, title string) error {
	if title == "" {
		title = "Placement Report"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	widths := []float64{90, 30, 40}
	for i, h := range []string{"Company", "Year", "Total Placed"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range report.Rows {
		name := row.CompanyName
		if name == "" {
			name = row.CompanyID
		}
		pdf.CellFormat(widths[0], 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, fmt.Sprintf("%d", row.Year), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", row.TotalPlaced), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall placed: %d", report.OverallTotal), "", 1, "L", false, 0, "")
	if report.Top != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Top company: %s (%d)", report.Top.CompanyName, report.Top.TotalPlaced), "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
