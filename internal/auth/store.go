package auth

import "context"

// UserStore describes persistence operations for accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	// ListWithStatus returns every non-superuser account, newest first.
	ListWithStatus(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetStatus(ctx context.Context, id, status string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	// AddAccess and RemoveAccess mutate the user's granted permission set.
	AddAccess(ctx context.Context, id, perm string) (User, error)
	RemoveAccess(ctx context.Context, id, perm string) (User, error)
}

// RoleStore describes persistence operations for the role registry.
type RoleStore interface {
	Upsert(ctx context.Context, role *Role) (Role, error)
	List(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id string) (Role, error)
	FindByName(ctx context.Context, name string) (Role, error)
	Update(ctx context.Context, id string, upd RoleUpdate) (Role, error)
	Delete(ctx context.Context, id string) error
}
