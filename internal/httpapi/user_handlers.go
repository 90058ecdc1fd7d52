package httpapi

import (
	"net/http"
	"strings"

	"cpms.org/internal/auth"
)

type createUserRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Number     string `json:"number"`
}

type statusRequest struct {
	Email string `json:"email"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request, role, actionType string) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.directory.CreateUser(r.Context(), role, auth.NewUser{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Email:      req.Email,
		Number:     req.Number,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), actionType, user.Role+" account created for "+user.Email)
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleCreateManagement(w http.ResponseWriter, r *http.Request) {
	a.createUser(w, r, auth.RoleManagementAdmin, "management.create")
}

func (a *API) handleCreateTPO(w http.ResponseWriter, r *http.Request) {
	a.createUser(w, r, auth.RoleTPOAdmin, "tpo.create")
}

func (a *API) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	a.createUser(w, r, auth.RoleStudent, "student.create")
}

func (a *API) handleListManagement(w http.ResponseWriter, r *http.Request) {
	a.listUsersByRole(w, r, auth.RoleManagementAdmin)
}

func (a *API) handleListTPO(w http.ResponseWriter, r *http.Request) {
	a.listUsersByRole(w, r, auth.RoleTPOAdmin)
}

func (a *API) handleListStudents(w http.ResponseWriter, r *http.Request) {
	a.listUsersByRole(w, r, auth.RoleStudent)
}

func (a *API) listUsersByRole(w http.ResponseWriter, r *http.Request, role string) {
	users, err := a.directory.UsersByRole(r.Context(), role)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.directory.UsersWithStatus(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// handleToggleStatus flips an account between active and inactive. There
// is no hard user delete; deactivation is the removal path.
func (a *API) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}
	user, err := a.directory.ToggleStatus(r.Context(), req.Email)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "user.status", user.Email+" is now "+user.Status)
	writeJSON(w, http.StatusOK, user)
}

// handleTPOStatus deactivates (or re-activates) a TPO account via the
// management route group.
func (a *API) handleTPOStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}
	user, err := a.directory.ToggleStatusInRole(r.Context(), req.Email, auth.RoleTPOAdmin)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "tpo.status", user.Email+" is now "+user.Status)
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleApproveStudent(w http.ResponseWriter, r *http.Request) {
	user, err := a.directory.ApproveStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r.Context(), "student.approve", "student "+user.Email+" approved")
	writeJSON(w, http.StatusOK, user)
}
