package auth

import "context"

// Principal is an authenticated user with a resolved permission set.
type Principal struct {
	User        User
	Permissions map[string]struct{}
}

// NewPrincipal builds a principal from a user record, normalizing the
// granted permission strings.
func NewPrincipal(user User) Principal {
	set := make(map[string]struct{}, len(user.Access))
	for _, p := range user.Access {
		p = Normalize(p)
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return Principal{User: user, Permissions: set}
}

// HasPermission reports whether the principal holds the (normalized) key.
func (p Principal) HasPermission(key string) bool {
	_, ok := p.Permissions[Normalize(key)]
	return ok
}

// IsSuperuser reports whether the principal bypasses permission checks.
func (p Principal) IsSuperuser() bool {
	return p.User.Role == RoleSuperuser
}

// SortedPermissions returns the granted keys for error payloads.
func (p Principal) SortedPermissions() []string {
	return sortedKeys(p.Permissions)
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
