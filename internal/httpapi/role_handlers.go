package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cpms.org/internal/auth"
)

type upsertRoleRequest struct {
	Role   string   `json:"role"`
	Access []string `json:"access"`
}

type updateRoleRequest struct {
	Role   *string  `json:"role"`
	Access []string `json:"access"`
}

type accessRequest struct {
	Access string `json:"access"`
}

func (a *API) handleUpsertRole(w http.ResponseWriter, r *http.Request) {
	var req upsertRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		writeError(w, r, http.StatusBadRequest, "role name is required")
		return
	}
	role, err := a.registry.UpsertRole(r.Context(), req.Role, req.Access)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "role.create", "role "+role.Name+" upserted")
	writeJSON(w, http.StatusCreated, role)
}

func (a *API) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.registry.Roles(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if roles == nil {
		roles = []auth.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (a *API) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := a.registry.UpdateRole(r.Context(), r.PathValue("id"), auth.RoleUpdate{
		Name:   req.Role,
		Access: req.Access,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "role.update", "role "+role.Name+" updated")
	writeJSON(w, http.StatusOK, role)
}

func (a *API) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := a.registry.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Role not found")
			return
		}
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "role.delete", "role "+r.PathValue("id")+" deleted")
	writeMsg(w, http.StatusOK, "Role deleted")
}

func (a *API) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.registry.Grant(r.Context(), r.PathValue("id"), req.Access)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "user.access.update", "granted "+req.Access+" to "+user.Email)
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	perm := strings.TrimSpace(r.URL.Query().Get(accessParam))
	if perm == "" {
		writeError(w, r, http.StatusBadRequest, "access query parameter is required")
		return
	}
	user, err := a.registry.Revoke(r.Context(), r.PathValue("id"), perm)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "user.access.update", "revoked "+perm+" from "+user.Email)
	writeJSON(w, http.StatusOK, user)
}
