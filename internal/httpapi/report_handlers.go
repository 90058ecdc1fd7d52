package httpapi

import (
	"net/http"
	"strconv"

	"cpms.org/internal/placement"
)

type recordRequest struct {
	CompanyID   string `json:"company_id"`
	Year        int    `json:"year"`
	TotalPlaced int    `json:"total_placed"`
}

func (a *API) handlePlacementReport(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := a.placements.AddRecord(r.Context(), placement.PlacementRecord{
		CompanyID:   req.CompanyID,
		Year:        req.Year,
		TotalPlaced: req.TotalPlaced,
	})
	if err != nil {
		handlePlacementError(w, r, err)
		return
	}
	a.audit(r.Context(), "placement.record.create",
		"placement record added for company "+rec.CompanyID+" year "+strconv.Itoa(rec.Year))
	writeJSON(w, http.StatusCreated, rec)
}
