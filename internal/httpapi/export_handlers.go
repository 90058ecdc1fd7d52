package httpapi

import (
	"net/http"
	"strings"

	"cpms.org/internal/auth"
	"cpms.org/internal/export"
	"cpms.org/internal/obs"
	"cpms.org/internal/placement"
)

func logExportFailure(r *http.Request, err error) {
	obs.LogError("export write failed", err, map[string]any{
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	})
}

func (a *API) handleExportStudents(w http.ResponseWriter, r *http.Request) {
	students, err := a.directory.UsersByRole(r.Context(), auth.RoleStudent)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="students.csv"`)
	if err := export.WriteStudentsCSV(w, students); err != nil {
		// Headers are out; nothing left to do but log.
		logExportFailure(r, err)
	}
}

func (a *API) handleExportAlumni(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseYear(q.Get("passing_year"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	alumni, err := a.placements.ListAlumni(r.Context(), placement.AlumniFilter{
		PassingYear:     year,
		Department:      strings.TrimSpace(q.Get("department")),
		PlacementStatus: strings.TrimSpace(q.Get("placement_status")),
	})
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="alumni.csv"`)
	if err := export.WriteAlumniCSV(w, alumni); err != nil {
		logExportFailure(r, err)
	}
}

func (a *API) handleExportReport(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	report, err := a.placements.PlacementReport(r.Context(), year)
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	title := "Placement Report"
	if year != nil {
		title = "Placement Report " + r.URL.Query().Get("year")
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="placement-report.pdf"`)
	if err := export.WriteReportPDF(w, report, title); err != nil {
		logExportFailure(r, err)
	}
}
