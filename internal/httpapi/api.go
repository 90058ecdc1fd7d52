// Package httpapi exposes the service over HTTP. Handlers stay thin:
// decode, call the domain service, map errors, encode.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"cpms.org/internal/audit"
	"cpms.org/internal/auth"
	"cpms.org/internal/obs"
	"cpms.org/internal/placement"
)

// ReadyProbe reports whether downstream dependencies can serve traffic.
type ReadyProbe interface {
	Ping(ctx context.Context) error
}

// API is the HTTP layer.
type API struct {
	mux *http.ServeMux

	directory  *auth.Directory
	registry   *auth.Registry
	tokens     *auth.Tokens
	placements *placement.Service
	recorder   *audit.Recorder
	ready      ReadyProbe
	version    string
}

// New wires every route group onto a fresh mux.
func New(directory *auth.Directory, registry *auth.Registry, tokens *auth.Tokens,
	placements *placement.Service, recorder *audit.Recorder, ready ReadyProbe, version string) *API {

	a := &API{
		mux:        http.NewServeMux(),
		directory:  directory,
		registry:   registry,
		tokens:     tokens,
		placements: placements,
		recorder:   recorder,
		ready:      ready,
		version:    version,
	}

	m := a.mux

	// health / metrics
	m.HandleFunc("GET /healthz", a.handleHealthz)
	m.HandleFunc("GET /readyz", a.handleReadyz)
	m.Handle("GET /metrics", obs.Handler())

	// session
	m.HandleFunc("POST /user/login", a.handleLogin)
	m.HandleFunc("GET /user/me", a.handleMe)
	m.HandleFunc("PUT /user/me", a.handleUpdateProfile)
	m.HandleFunc("POST /user/password", a.handleChangePassword)
	m.Handle("GET /user/{id}", a.requireAccess(a.handleUserByID))

	// role registry and user administration
	m.Handle("POST /admin/roles", a.requireSuperuser(a.handleUpsertRole))
	m.Handle("GET /admin/roles", a.requireSuperuser(a.handleListRoles))
	m.Handle("PUT /admin/roles/{id}", a.requireSuperuser(a.handleUpdateRole))
	m.Handle("DELETE /admin/roles/{id}", a.requireSuperuser(a.handleDeleteRole))
	m.Handle("GET /admin/users", a.requireSuperuser(a.handleListUsers))
	m.Handle("POST /admin/users/status", a.requireSuperuser(a.handleToggleStatus))
	m.Handle("POST /admin/users/{id}/access", a.requireSuperuser(a.handleGrantAccess))
	m.Handle("DELETE /admin/users/{id}/access", a.requireSuperuser(a.handleRevokeAccess))
	m.Handle("POST /admin/management", a.requireSuperuser(a.handleCreateManagement))
	m.Handle("GET /admin/management", a.requireSuperuser(a.handleListManagement))

	// students
	m.Handle("POST /admin/students", a.requireAccess(a.handleCreateStudent))
	m.Handle("GET /admin/students", a.requireAccess(a.handleListStudents))
	m.Handle("POST /admin/students/{id}/approve", a.requireAccess(a.handleApproveStudent))

	// alumni
	m.Handle("POST /admin/alumni", a.requireAccess(a.handleCreateAlumni))
	m.Handle("GET /admin/alumni", a.requireAccess(a.handleListAlumni))
	m.Handle("GET /admin/alumni/years", a.requireAccess(a.handleAlumniYears))
	m.Handle("GET /admin/alumni/stats", a.requireAccess(a.handleAlumniStats))
	m.Handle("GET /admin/alumni/{id}", a.requireAccess(a.handleAlumniByID))
	m.Handle("PUT /admin/alumni/{id}", a.requireAccess(a.handleUpdateAlumni))
	m.Handle("DELETE /admin/alumni/{id}", a.requireAccess(a.handleDeleteAlumni))

	// placement report
	m.Handle("GET /admin/placement/report", a.requireAccess(a.handlePlacementReport))
	m.Handle("POST /admin/placement/records", a.requireAccess(a.handleAddRecord))

	// management: TPO accounts and notices
	m.Handle("POST /management/tpo", a.requireAccess(a.handleCreateTPO))
	m.Handle("GET /management/tpo", a.requireAccess(a.handleListTPO))
	m.Handle("POST /management/tpo/status", a.requireAccess(a.handleTPOStatus))
	m.Handle("POST /management/notices", a.requireAccess(a.handleSendNotice))
	m.Handle("GET /management/notices", a.requireAccess(a.handleListNotices))
	m.Handle("GET /management/notices/{id}", a.requireAccess(a.handleNoticeByID))
	m.Handle("DELETE /management/notices/{id}", a.requireAccess(a.handleDeleteNotice))

	// companies and job postings
	m.Handle("POST /company", a.requireAccess(a.handleAddCompany))
	m.Handle("GET /company", a.requireAccess(a.handleListCompanies))
	m.Handle("POST /company/check-permission", a.requireAccess(a.handleCheckPermission))
	m.Handle("POST /company/jobs", a.requireAccess(a.handlePostJob))
	m.Handle("GET /company/jobs", a.requireAccess(a.handleListJobs))
	m.Handle("GET /company/jobs/{id}", a.requireAccess(a.handleJobByID))
	m.Handle("PUT /company/jobs/{id}", a.requireAccess(a.handleUpdateJob))
	m.Handle("DELETE /company/jobs/{id}", a.requireAccess(a.handleDeleteJob))
	m.Handle("GET /company/{id}", a.requireAccess(a.handleCompanyByID))
	m.Handle("PUT /company/{id}", a.requireAccess(a.handleUpdateCompany))
	m.Handle("DELETE /company/{id}", a.requireAccess(a.handleDeleteCompany))

	// audit trail
	m.Handle("GET /audit/logs", a.requireSuperuser(a.handleListAuditLogs))
	m.Handle("DELETE /audit/logs", a.requireSuperuser(a.handleClearAuditLogs))

	// exports
	m.Handle("GET /api/export/students.csv", a.requireAccess(a.handleExportStudents))
	m.Handle("GET /api/export/alumni.csv", a.requireAccess(a.handleExportAlumni))
	m.Handle("GET /api/export/report.pdf", a.requireAccess(a.handleExportReport))

	return a
}

// Handler returns the fully wrapped handler: metrics instrumentation
// around bearer auth around the mux.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "cpms-api",
		"version": a.version,
	})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.ready != nil {
		if err := a.ready.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// audit queues one trail entry attributed to the request's principal.
func (a *API) audit(ctx context.Context, actionType, description string) {
	if a.recorder == nil {
		return
	}
	entry := audit.Entry{ActionType: actionType, Description: description}
	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		entry.PerformedBy = principal.User.Email
		entry.Role = principal.User.Role
	}
	a.recorder.Record(entry)
}

// auditAs queues a trail entry attributed to an explicit user, for routes
// that run before a principal exists.
func (a *API) auditAs(user auth.User, actionType, description string) {
	if a.recorder == nil {
		return
	}
	a.recorder.Record(audit.Entry{
		ActionType:  actionType,
		Description: description,
		PerformedBy: user.Email,
		Role:        user.Role,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the flat failure envelope clients string-match on.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"success": false,
		"msg":     msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": true, "msg": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *auth.InvalidPermissionsError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"msg":     "Invalid permissions",
			"invalid": invalid.Invalid,
		})
	case errors.Is(err, auth.ErrRoleTemplateMissing):
		writeError(w, r, http.StatusBadRequest, "Role not found in system!")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, r, http.StatusForbidden, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func handlePlacementError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, placement.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, placement.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, placement.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func parseYear(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return nil, errors.New("year must be a four-digit number")
	}
	return &year, nil
}
