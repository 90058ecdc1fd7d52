package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cpms.org/internal/auth"
	"cpms.org/internal/ids"
)

// UserStore persists accounts. Permission sets live in a jsonb column so
// grants survive round trips without a join table.
type UserStore struct {
	db *sql.DB
}

const userColumns = `id, first_name, coalesce(middle_name,''), coalesce(last_name,''),
	email, coalesce(number,''), password_hash, role, access, status, approved,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (auth.User, error) {
	var (
		u         auth.User
		rawAccess []byte
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.Email, &u.Number, &u.PasswordHash, &u.Role, &rawAccess,
		&u.Status, &u.Approved, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	if len(rawAccess) > 0 {
		if err := json.Unmarshal(rawAccess, &u.Access); err != nil {
			return auth.User{}, fmt.Errorf("decode access: %w", err)
		}
	}
	return u, nil
}

func accessJSON(access []string) ([]byte, error) {
	if access == nil {
		access = []string{}
	}
	return json.Marshal(access)
}

func (s *UserStore) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	rawAccess, err := accessJSON(u.Access)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		insert into users (id, first_name, middle_name, last_name, email, number,
			password_hash, role, access, status, approved)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning created_at, updated_at
	`, u.ID, u.FirstName, nullIfEmpty(u.MiddleName), nullIfEmpty(u.LastName),
		u.Email, nullIfEmpty(u.Number), u.PasswordHash, u.Role, rawAccess,
		u.Status, u.Approved).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) ListByRole(ctx context.Context, role string) ([]auth.User, error) {
	return s.list(ctx,
		`select `+userColumns+` from users where role = $1 order by created_at desc`, role)
}

func (s *UserStore) ListWithStatus(ctx context.Context) ([]auth.User, error) {
	return s.list(ctx,
		`select `+userColumns+` from users where role <> $1 order by created_at desc`,
		auth.RoleSuperuser)
}

func (s *UserStore) list(ctx context.Context, query string, args ...any) ([]auth.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id string, upd auth.ProfileUpdate) (auth.User, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if upd.FirstName != nil {
		set("first_name", *upd.FirstName)
	}
	if upd.MiddleName != nil {
		set("middle_name", nullIfEmpty(*upd.MiddleName))
	}
	if upd.LastName != nil {
		set("last_name", nullIfEmpty(*upd.LastName))
	}
	if upd.Number != nil {
		set("number", nullIfEmpty(*upd.Number))
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		if err := s.exec(ctx, query, args...); err != nil {
			return auth.User{}, err
		}
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.exec(ctx,
		`update users set password_hash = $1, updated_at = now() where id = $2`,
		passwordHash, id)
}

func (s *UserStore) SetStatus(ctx context.Context, id, status string) error {
	return s.exec(ctx,
		`update users set status = $1, updated_at = now() where id = $2`, status, id)
}

func (s *UserStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return s.exec(ctx,
		`update users set approved = $1, updated_at = now() where id = $2`, approved, id)
}

func (s *UserStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// AddAccess appends one permission to the user's granted set under a row
// lock so concurrent grants do not lose updates.
func (s *UserStore) AddAccess(ctx context.Context, id, perm string) (auth.User, error) {
	return s.mutateAccess(ctx, id, func(access []string) []string {
		if slices.Contains(access, perm) {
			return access
		}
		return append(access, perm)
	})
}

// RemoveAccess removes one permission from the user's granted set.
func (s *UserStore) RemoveAccess(ctx context.Context, id, perm string) (auth.User, error) {
	return s.mutateAccess(ctx, id, func(access []string) []string {
		return slices.DeleteFunc(access, func(p string) bool { return p == perm })
	})
}

func (s *UserStore) mutateAccess(ctx context.Context, id string, mutate func([]string) []string) (auth.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var rawAccess []byte
	err = tx.QueryRowContext(ctx,
		`select access from users where id = $1 for update`, id).Scan(&rawAccess)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.User{}, err
	}

	var access []string
	if len(rawAccess) > 0 {
		if err := json.Unmarshal(rawAccess, &access); err != nil {
			return auth.User{}, fmt.Errorf("decode access: %w", err)
		}
	}
	access = mutate(access)

	updated, err := accessJSON(access)
	if err != nil {
		return auth.User{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`update users set access = $1, updated_at = now() where id = $2`, updated, id); err != nil {
		return auth.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return auth.User{}, err
	}
	return s.FindByID(ctx, id)
}

// RoleStore persists the role registry.
type RoleStore struct {
	db *sql.DB
}

const roleColumns = `id, role, access, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (auth.Role, error) {
	var (
		r         auth.Role
		rawAccess []byte
	)
	err := row.Scan(&r.ID, &r.Name, &rawAccess, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Role{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Role{}, err
	}
	if len(rawAccess) > 0 {
		if err := json.Unmarshal(rawAccess, &r.Access); err != nil {
			return auth.Role{}, fmt.Errorf("decode access: %w", err)
		}
	}
	return r, nil
}

func (s *RoleStore) Upsert(ctx context.Context, role *auth.Role) (auth.Role, error) {
	if role.ID == "" {
		role.ID = ids.New()
	}
	rawAccess, err := accessJSON(role.Access)
	if err != nil {
		return auth.Role{}, err
	}
	row := s.db.QueryRowContext(ctx, `
		insert into roles (id, role, access)
		values ($1, $2, $3)
		on conflict (role) do update
		set access = excluded.access, updated_at = now()
		returning `+roleColumns+`
	`, role.ID, role.Name, rawAccess)
	return scanRole(row)
}

func (s *RoleStore) List(ctx context.Context) ([]auth.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+roleColumns+` from roles order by role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []auth.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleStore) FindByID(ctx context.Context, id string) (auth.Role, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+roleColumns+` from roles where id = $1`, id)
	return scanRole(row)
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (auth.Role, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+roleColumns+` from roles where role = $1`, name)
	return scanRole(row)
}

func (s *RoleStore) Update(ctx context.Context, id string, upd auth.RoleUpdate) (auth.Role, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("role = $%d", idx))
		args = append(args, *upd.Name)
		idx++
	}
	if upd.Access != nil {
		rawAccess, err := accessJSON(upd.Access)
		if err != nil {
			return auth.Role{}, err
		}
		sets = append(sets, fmt.Sprintf("access = $%d", idx))
		args = append(args, rawAccess)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update roles set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return auth.Role{}, auth.ErrConflict
			}
			return auth.Role{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return auth.Role{}, err
		}
		if aff == 0 {
			return auth.Role{}, auth.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *RoleStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from roles where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}
