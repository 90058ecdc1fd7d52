// Package export renders report and directory data as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cpms.org/internal/auth"
	"cpms.org/internal/placement"
)

// WriteStudentsCSV streams the student directory as CSV.
func WriteStudentsCSV(w io.Writer, students []auth.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Full Name", "Email", "Phone", "Status", "Approved", "Created Date"}); err != nil {
		return err
	}
	for _, s := range students {
		approved := "No"
		if s.Approved {
			approved = "Yes"
		}
		record := []string{
			fullName(s.FirstName, s.MiddleName, s.LastName),
			s.Email,
			s.Number,
			s.Status,
			approved,
			s.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAlumniCSV streams alumni placement outcomes as CSV.
func WriteAlumniCSV(w io.Writer, alumni []placement.Alumni) error {
	cw := csv.NewWriter(w)
	header := []string{"UIN", "Full Name", "Email", "Department", "Passing Year",
		"Placement Status", "Company", "Job Title", "Package (LPA)", "Location"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range alumni {
		pkg := ""
		if a.PackageLPA > 0 {
			pkg = fmt.Sprintf("%.2f", a.PackageLPA)
		}
		record := []string{
			a.UIN,
			fullName(a.FirstName, a.MiddleName, a.LastName),
			a.Email,
			a.Department,
			fmt.Sprintf("%d", a.PassingYear),
			a.PlacementStatus,
			a.CompanyName,
			a.JobTitle,
			pkg,
			a.JobLocation,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fullName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
