package auth

import (
	"context"
	"fmt"
	"strings"
)

// Registry manages role templates and per-user permission grants. Every
// permission it accepts must be a member of the injected allow-list.
type Registry struct {
	roles RoleStore
	users UserStore
	allow AllowList
}

// NewRegistry constructs a Registry.
func NewRegistry(roles RoleStore, users UserStore, allow AllowList) *Registry {
	return &Registry{roles: roles, users: users, allow: allow}
}

// AllowList exposes the injected permission catalog.
func (r *Registry) AllowList() AllowList { return r.allow }

// UpsertRole validates and saves a role → access mapping. Repeating the
// same call yields the same stored access set.
func (r *Registry) UpsertRole(ctx context.Context, name string, access []string) (Role, error) {
	name = NormalizeRoleName(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role is required", ErrInvalidInput)
	}
	clean, invalid := r.allow.CleanSet(access)
	if len(invalid) > 0 {
		return Role{}, &InvalidPermissionsError{Invalid: invalid}
	}
	role := Role{Name: name, Access: clean}
	return r.roles.Upsert(ctx, &role)
}

// Roles lists every registered role template.
func (r *Registry) Roles(ctx context.Context) ([]Role, error) {
	return r.roles.List(ctx)
}

// UpdateRole mutates a role by identifier. Unknown ids map to ErrNotFound,
// role-name collisions to ErrConflict.
func (r *Registry) UpdateRole(ctx context.Context, id string, upd RoleUpdate) (Role, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Role{}, fmt.Errorf("%w: invalid role id", ErrInvalidInput)
	}
	if upd.Name == nil && upd.Access == nil {
		return Role{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if upd.Name != nil {
		name := NormalizeRoleName(*upd.Name)
		if name == "" {
			return Role{}, fmt.Errorf("%w: role must be a non-empty string", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Access != nil {
		clean, invalid := r.allow.CleanSet(upd.Access)
		if len(invalid) > 0 {
			return Role{}, &InvalidPermissionsError{Invalid: invalid}
		}
		if clean == nil {
			clean = []string{}
		}
		upd.Access = clean
	}
	return r.roles.Update(ctx, id, upd)
}

// DeleteRole removes a role template by identifier.
func (r *Registry) DeleteRole(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: invalid role id", ErrInvalidInput)
	}
	return r.roles.Delete(ctx, id)
}

// Grant adds one permission to a user's access set. A duplicate grant is a
// no-op on the stored set.
func (r *Registry) Grant(ctx context.Context, userID, perm string) (User, error) {
	perm, err := r.checkPerm(perm)
	if err != nil {
		return User{}, err
	}
	return r.users.AddAccess(ctx, userID, perm)
}

// Revoke removes one permission from a user's access set.
func (r *Registry) Revoke(ctx context.Context, userID, perm string) (User, error) {
	perm, err := r.checkPerm(perm)
	if err != nil {
		return User{}, err
	}
	return r.users.RemoveAccess(ctx, userID, perm)
}

func (r *Registry) checkPerm(perm string) (string, error) {
	perm = Normalize(perm)
	if perm == "" {
		return "", fmt.Errorf("%w: permission is required", ErrInvalidInput)
	}
	if !r.allow.Contains(perm) {
		return "", &InvalidPermissionsError{Invalid: []string{perm}}
	}
	return perm, nil
}
