package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")

	// ErrRoleTemplateMissing is returned when account creation cannot seed
	// permissions because the role has no registry entry.
	ErrRoleTemplateMissing = errors.New("auth: role not found in system")
)

// InvalidPermissionsError reports permission strings outside the allow-list.
// It matches ErrInvalidInput under errors.Is.
type InvalidPermissionsError struct {
	Invalid []string
}

func (e *InvalidPermissionsError) Error() string {
	return fmt.Sprintf("invalid permission(s) provided: %s", strings.Join(e.Invalid, ", "))
}

func (e *InvalidPermissionsError) Is(target error) bool {
	return target == ErrInvalidInput
}
