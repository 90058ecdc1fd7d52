package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cpms.org/internal/auth"
	"cpms.org/internal/placement"
)

type alumniRequest struct {
	StudentID       string  `json:"student_id"`
	FirstName       string  `json:"first_name"`
	MiddleName      string  `json:"middle_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	UIN             string  `json:"uin"`
	Department      string  `json:"department"`
	PassingYear     int     `json:"passing_year"`
	PlacementStatus string  `json:"placement_status"`
	CompanyID       string  `json:"company_id"`
	CompanyName     string  `json:"company_name"`
	JobTitle        string  `json:"job_title"`
	PackageLPA      float64 `json:"package_lpa"`
	JobLocation     string  `json:"job_location"`
}

type alumniUpdateRequest struct {
	FirstName       *string  `json:"first_name"`
	MiddleName      *string  `json:"middle_name"`
	LastName        *string  `json:"last_name"`
	Email           *string  `json:"email"`
	UIN             *string  `json:"uin"`
	Department      *string  `json:"department"`
	PassingYear     *int     `json:"passing_year"`
	PlacementStatus *string  `json:"placement_status"`
	CompanyID       *string  `json:"company_id"`
	CompanyName     *string  `json:"company_name"`
	JobTitle        *string  `json:"job_title"`
	PackageLPA      *float64 `json:"package_lpa"`
	JobLocation     *string  `json:"job_location"`
}

func (a *API) handleCreateAlumni(w http.ResponseWriter, r *http.Request) {
	var req alumniRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	record := placement.Alumni{
		StudentID:       req.StudentID,
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		LastName:        req.LastName,
		Email:           req.Email,
		UIN:             req.UIN,
		Department:      req.Department,
		PassingYear:     req.PassingYear,
		PlacementStatus: req.PlacementStatus,
		CompanyID:       req.CompanyID,
		CompanyName:     req.CompanyName,
		JobTitle:        req.JobTitle,
		PackageLPA:      req.PackageLPA,
		JobLocation:     req.JobLocation,
	}
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		record.CreatedBy = principal.User.Email
	}
	created, err := a.placements.CreateAlumni(r.Context(), record)
	if err != nil {
		handleAlumniError(w, r, err)
		return
	}
	a.audit(r.Context(), "alumni.create", "alumni record created for "+created.UIN)
	writeJSON(w, http.StatusCreated, created)
}

// handleAlumniError keeps the duplicate messages clients match on.
func handleAlumniError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, placement.ErrConflict) {
		if strings.Contains(err.Error(), "uin") {
			writeError(w, r, http.StatusBadRequest, "UIN already exists!")
		} else {
			writeError(w, r, http.StatusBadRequest, "Alumni record already exists for this student!")
		}
		return
	}
	handlePlacementError(w, r, err)
}

func (a *API) handleListAlumni(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseYear(q.Get("passing_year"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	filter := placement.AlumniFilter{
		PassingYear:     year,
		Department:      strings.TrimSpace(q.Get("department")),
		PlacementStatus: strings.TrimSpace(q.Get("placement_status")),
	}
	alumni, err := a.placements.ListAlumni(r.Context(), filter)
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	if alumni == nil {
		alumni = []placement.Alumni{}
	}
	writeJSON(w, http.StatusOK, alumni)
}

func (a *API) handleAlumniByID(w http.ResponseWriter, r *http.Request) {
	record, err := a.placements.AlumniByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleUpdateAlumni(w http.ResponseWriter, r *http.Request) {
	var req alumniUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	upd := placement.AlumniUpdate{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		LastName:        req.LastName,
		Email:           req.Email,
		UIN:             req.UIN,
		Department:      req.Department,
		PassingYear:     req.PassingYear,
		PlacementStatus: req.PlacementStatus,
		CompanyID:       req.CompanyID,
		CompanyName:     req.CompanyName,
		JobTitle:        req.JobTitle,
		PackageLPA:      req.PackageLPA,
		JobLocation:     req.JobLocation,
	}
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		email := principal.User.Email
		upd.LastUpdatedBy = &email
	}
	record, err := a.placements.UpdateAlumni(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		handleAlumniError(w, r, err)
		return
	}
	a.audit(r.Context(), "alumni.update", "alumni record updated for "+record.UIN)
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleDeleteAlumni(w http.ResponseWriter, r *http.Request) {
	if err := a.placements.DeleteAlumni(r.Context(), r.PathValue("id")); err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "alumni.delete", "alumni record "+r.PathValue("id")+" deleted")
	writeMsg(w, http.StatusOK, "Alumni record deleted")
}

func (a *API) handleAlumniYears(w http.ResponseWriter, r *http.Request) {
	years, err := a.placements.PassingYears(r.Context())
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (a *API) handleAlumniStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.placements.PlacementStats(r.Context())
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
