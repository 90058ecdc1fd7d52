package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cpms.org/internal/auth"
	"cpms.org/internal/placement"
)

type companyRequest struct {
	Name        string `json:"company_name"`
	Description string `json:"company_description"`
	Website     string `json:"company_website"`
	Location    string `json:"company_location"`
	Difficulty  string `json:"company_difficulty"`
}

type companyUpdateRequest struct {
	Name        *string `json:"company_name"`
	Description *string `json:"company_description"`
	Website     *string `json:"company_website"`
	Location    *string `json:"company_location"`
	Difficulty  *string `json:"company_difficulty"`
}

type jobRequest struct {
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"job_title"`
	Description string    `json:"job_description"`
	Salary      string    `json:"job_salary"`
	LastDate    time.Time `json:"application_closes"`
}

type jobUpdateRequest struct {
	Title       *string    `json:"job_title"`
	Description *string    `json:"job_description"`
	Salary      *string    `json:"job_salary"`
	LastDate    *time.Time `json:"application_closes"`
}

func (a *API) handleAddCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "company name is required")
		return
	}
	company, err := a.placements.AddCompany(r.Context(), placement.Company{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		if errors.Is(err, placement.ErrConflict) {
			writeError(w, r, http.StatusBadRequest, "Company Name Already Exist!")
			return
		}
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "company.create", "company "+company.Name+" created")
	writeJSON(w, http.StatusCreated, company)
}

func (a *API) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.placements.Companies(r.Context())
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	if companies == nil {
		companies = []placement.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (a *API) handleCompanyByID(w http.ResponseWriter, r *http.Request) {
	company, err := a.placements.Company(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (a *API) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	company, err := a.placements.UpdateCompany(r.Context(), r.PathValue("id"), placement.CompanyUpdate{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		if errors.Is(err, placement.ErrConflict) {
			writeError(w, r, http.StatusBadRequest, "Company Name Already Exist!")
			return
		}
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "company.update", "company "+company.Name+" updated")
	writeJSON(w, http.StatusOK, company)
}

func (a *API) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	company, err := a.placements.DeleteCompany(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "company.delete", "company "+company.Name+" deleted")
	writeMsg(w, http.StatusOK, "Company deleted")
}

// handleCheckPermission exists for clients probing whether the caller
// holds a permission; the middleware has already decided by the time we
// get here.
func (a *API) handleCheckPermission(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"available": principal.SortedPermissions(),
	})
}

func (a *API) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	job, err := a.placements.PostJob(r.Context(), placement.Job{
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		LastDate:    req.LastDate,
	})
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "job.create", "job "+job.Title+" posted")
	writeJSON(w, http.StatusCreated, job)
}

func (a *API) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.placements.Jobs(r.Context())
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []placement.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (a *API) handleJobByID(w http.ResponseWriter, r *http.Request) {
	job, err := a.placements.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (a *API) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	job, err := a.placements.UpdateJob(r.Context(), r.PathValue("id"), placement.JobUpdate{
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		LastDate:    req.LastDate,
	})
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "job.update", "job "+job.Title+" updated")
	writeJSON(w, http.StatusOK, job)
}

func (a *API) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := a.placements.DeleteJob(r.Context(), r.PathValue("id")); err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "job.delete", "job "+r.PathValue("id")+" deleted")
	writeMsg(w, http.StatusOK, "Job deleted")
}
