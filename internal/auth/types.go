package auth

import "time"

// Role names recognised by the service.
const (
	RoleStudent         = "student"
	RoleTPOAdmin        = "tpo_admin"
	RoleManagementAdmin = "management_admin"
	RoleSuperuser       = "superuser"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidRole reports whether r is one of the recognised role names.
func ValidRole(r string) bool {
	switch r {
	case RoleStudent, RoleTPOAdmin, RoleManagementAdmin, RoleSuperuser:
		return true
	}
	return false
}

// User is an account operating in one of the fixed roles. Access holds the
// permission strings granted to this user individually; it is seeded from
// the role template at creation and mutated only by explicit grant/revoke.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Email        string    `json:"email"`
	Number       string    `json:"number,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Access       []string  `json:"access"`
	Status       string    `json:"status"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a named template of default permissions copied onto new users at
// creation. It is not synced to existing users afterwards.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"role"`
	Access    []string  `json:"access"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleUpdate carries the allow-listed mutable fields of a role. Nil means
// "leave unchanged".
type RoleUpdate struct {
	Name   *string
	Access []string
}

// ProfileUpdate carries the allow-listed mutable profile fields of a user.
type ProfileUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Number     *string
}

// NewUser is the input for account creation.
type NewUser struct {
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Number     string
}
