package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"cpms.org/internal/audit"
)

type auditLogsResponse struct {
	Items []audit.Entry `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (a *API) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePositiveInt(q.Get("page"), 1)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, err := parsePositiveInt(q.Get("limit"), 10)
	if err != nil || limit > 100 {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	filter := audit.Filter{
		PerformedBy: strings.TrimSpace(q.Get("performed_by")),
		Type:        strings.TrimSpace(q.Get("type")),
		Page:        page,
		Limit:       limit,
	}
	items, total, err := a.recorder.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, auditLogsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (a *API) handleClearAuditLogs(w http.ResponseWriter, r *http.Request) {
	if err := a.recorder.Clear(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeMsg(w, http.StatusOK, "Audit logs cleared")
}

func parsePositiveInt(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return 0, strconv.ErrSyntax
	}
	return val, nil
}
