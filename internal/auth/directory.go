package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cpms.org/internal/mail"
	"cpms.org/internal/obs"
)

// Directory administers accounts: creation with registry-seeded
// permissions, listing, status management, profiles and credentials.
type Directory struct {
	users  UserStore
	roles  RoleStore
	mailer mail.Mailer

	passwordLength int
}

// NewDirectory constructs a Directory. mailer may be mail.Nop{}.
func NewDirectory(users UserStore, roles RoleStore, mailer mail.Mailer) *Directory {
	if mailer == nil {
		mailer = mail.Nop{}
	}
	return &Directory{users: users, roles: roles, mailer: mailer, passwordLength: 12}
}

// roleLabels is used in the credentials mail subject.
var roleLabels = map[string]string{
	RoleStudent:         "Student",
	RoleTPOAdmin:        "TPO",
	RoleManagementAdmin: "Management Admin",
	RoleSuperuser:       "Superuser",
}

// CreateUser provisions an account in the given role. The permission set is
// seeded from the role registry template; the generated password is
// e-mailed out best effort. A mail failure leaves the created account in
// place (there is no compensating rollback).
func (d *Directory) CreateUser(ctx context.Context, role string, input NewUser) (User, error) {
	if !ValidRole(role) || role == RoleSuperuser {
		return User{}, fmt.Errorf("%w: unsupported role %s", ErrInvalidInput, role)
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return User{}, fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}

	if _, err := d.users.FindByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("%w: user %s", ErrConflict, email)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	template, err := d.roles.FindByName(ctx, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrRoleTemplateMissing
		}
		return User{}, err
	}

	password, err := GeneratePassword(d.passwordLength)
	if err != nil {
		return User{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		FirstName:    firstName,
		MiddleName:   strings.TrimSpace(input.MiddleName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Number:       strings.TrimSpace(input.Number),
		PasswordHash: hash,
		Role:         role,
		Access:       append([]string(nil), template.Access...),
		Status:       StatusActive,
	}
	if err := d.users.Create(ctx, &user); err != nil {
		return User{}, err
	}

	d.sendCredentials(ctx, user, password)
	return user, nil
}

func (d *Directory) sendCredentials(ctx context.Context, user User, password string) {
	label := roleLabels[user.Role]
	body, err := mail.CredentialsBody(mail.Credentials{
		Role:     label,
		Name:     user.FirstName,
		Email:    user.Email,
		Password: password,
	})
	if err == nil {
		err = d.mailer.Send(ctx, user.Email, mail.CredentialsSubject(label), body)
	}
	if err != nil {
		obs.LogError("credentials mail failed", err, map[string]any{"email": user.Email})
	}
}

// Authenticate checks credentials for login. Inactive accounts are refused.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return User{}, ErrUnauthorized
	}
	user, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	if user.Status != StatusActive {
		return User{}, ErrUnauthorized
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrUnauthorized
	}
	return user, nil
}

// UserByID loads one account.
func (d *Directory) UserByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return d.users.FindByID(ctx, id)
}

// UsersByRole lists accounts in one role.
func (d *Directory) UsersByRole(ctx context.Context, role string) ([]User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unsupported role %s", ErrInvalidInput, role)
	}
	return d.users.ListByRole(ctx, role)
}

// UsersWithStatus lists every non-superuser account with its status.
func (d *Directory) UsersWithStatus(ctx context.Context) ([]User, error) {
	return d.users.ListWithStatus(ctx)
}

// ToggleStatus flips a user between active and inactive by email.
// Superuser accounts cannot be deactivated.
func (d *Directory) ToggleStatus(ctx context.Context, email string) (User, error) {
	user, err := d.statusTarget(ctx, email)
	if err != nil {
		return User{}, err
	}
	next := StatusInactive
	if user.Status == StatusInactive {
		next = StatusActive
	}
	if err := d.users.SetStatus(ctx, user.ID, next); err != nil {
		return User{}, err
	}
	user.Status = next
	return user, nil
}

// ToggleStatusInRole flips status like ToggleStatus but refuses targets
// outside the given role, so a route group cannot reach other account
// kinds.
func (d *Directory) ToggleStatusInRole(ctx context.Context, email, role string) (User, error) {
	user, err := d.statusTarget(ctx, email)
	if err != nil {
		return User{}, err
	}
	if user.Role != role {
		return User{}, fmt.Errorf("%w: account is not a %s", ErrForbidden, role)
	}
	next := StatusInactive
	if user.Status == StatusInactive {
		next = StatusActive
	}
	if err := d.users.SetStatus(ctx, user.ID, next); err != nil {
		return User{}, err
	}
	user.Status = next
	return user, nil
}

// Deactivate marks a user inactive. Account removal is always this soft
// status flip; there is no hard delete, so alumni and audit references
// stay valid.
func (d *Directory) Deactivate(ctx context.Context, email string) (User, error) {
	user, err := d.statusTarget(ctx, email)
	if err != nil {
		return User{}, err
	}
	if user.Status == StatusInactive {
		return User{}, fmt.Errorf("%w: user is already deactivated", ErrInvalidInput)
	}
	if err := d.users.SetStatus(ctx, user.ID, StatusInactive); err != nil {
		return User{}, err
	}
	user.Status = StatusInactive
	return user, nil
}

// Activate marks a user active again.
func (d *Directory) Activate(ctx context.Context, email string) (User, error) {
	user, err := d.statusTarget(ctx, email)
	if err != nil {
		return User{}, err
	}
	if user.Status == StatusActive {
		return User{}, fmt.Errorf("%w: user is already active", ErrInvalidInput)
	}
	if err := d.users.SetStatus(ctx, user.ID, StatusActive); err != nil {
		return User{}, err
	}
	user.Status = StatusActive
	return user, nil
}

func (d *Directory) statusTarget(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if user.Role == RoleSuperuser {
		return User{}, fmt.Errorf("%w: cannot deactivate superuser accounts", ErrForbidden)
	}
	return user, nil
}

// ApproveStudent sets the approval flag on a student account.
func (d *Directory) ApproveStudent(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	user, err := d.users.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if user.Role != RoleStudent {
		return User{}, fmt.Errorf("%w: not a student account", ErrInvalidInput)
	}
	if err := d.users.SetApproved(ctx, id, true); err != nil {
		return User{}, err
	}
	user.Approved = true
	return user, nil
}

// UpdateProfile applies the allow-listed profile fields.
func (d *Directory) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if upd.FirstName != nil {
		name := strings.TrimSpace(*upd.FirstName)
		if name == "" {
			return User{}, fmt.Errorf("%w: first_name must be non-empty", ErrInvalidInput)
		}
		upd.FirstName = &name
	}
	return d.users.UpdateProfile(ctx, id, upd)
}

// ChangePassword verifies the current password and stores a new hash.
func (d *Directory) ChangePassword(ctx context.Context, id, current, next string) error {
	id = strings.TrimSpace(id)
	if id == "" || next == "" {
		return fmt.Errorf("%w: user id and new password are required", ErrInvalidInput)
	}
	user, err := d.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		return ErrUnauthorized
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return d.users.UpdatePassword(ctx, id, hash)
}
