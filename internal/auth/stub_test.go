package auth

import (
	"context"
	"slices"
	"strconv"
	"time"
)

// In-memory stores used across the package tests.

type memUserStore struct {
	users map[string]User
	seq   int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]User)}
}

func (s *memUserStore) Create(_ context.Context, u *User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	if u.ID == "" {
		s.seq++
		u.ID = "user-" + strconv.Itoa(s.seq)
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *memUserStore) ListByRole(_ context.Context, role string) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUserStore) ListWithStatus(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if u.Role != RoleSuperuser {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, id string, upd ProfileUpdate) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.MiddleName != nil {
		u.MiddleName = *upd.MiddleName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Number != nil {
		u.Number = *upd.Number
	}
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *memUserStore) SetStatus(_ context.Context, id, status string) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	return nil
}

func (s *memUserStore) SetApproved(_ context.Context, id string, approved bool) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Approved = approved
	s.users[id] = u
	return nil
}

func (s *memUserStore) AddAccess(_ context.Context, id, perm string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if !slices.Contains(u.Access, perm) {
		u.Access = append(slices.Clone(u.Access), perm)
	}
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) RemoveAccess(_ context.Context, id, perm string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	u.Access = slices.DeleteFunc(slices.Clone(u.Access), func(p string) bool { return p == perm })
	s.users[id] = u
	return u, nil
}

type memRoleStore struct {
	roles map[string]Role
	seq   int
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{roles: make(map[string]Role)}
}

func (s *memRoleStore) Upsert(_ context.Context, role *Role) (Role, error) {
	for id, existing := range s.roles {
		if existing.Name == role.Name {
			existing.Access = slices.Clone(role.Access)
			existing.UpdatedAt = time.Now().UTC()
			s.roles[id] = existing
			return existing, nil
		}
	}
	if role.ID == "" {
		s.seq++
		role.ID = "role-" + strconv.Itoa(s.seq)
	}
	role.CreatedAt = time.Now().UTC()
	role.UpdatedAt = role.CreatedAt
	s.roles[role.ID] = *role
	return *role, nil
}

func (s *memRoleStore) List(context.Context) ([]Role, error) {
	var out []Role
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

func (s *memRoleStore) FindByID(_ context.Context, id string) (Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return Role{}, ErrNotFound
	}
	return r, nil
}

func (s *memRoleStore) FindByName(_ context.Context, name string) (Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return Role{}, ErrNotFound
}

func (s *memRoleStore) Update(_ context.Context, id string, upd RoleUpdate) (Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return Role{}, ErrNotFound
	}
	if upd.Name != nil {
		for otherID, other := range s.roles {
			if otherID != id && other.Name == *upd.Name {
				return Role{}, ErrConflict
			}
		}
		r.Name = *upd.Name
	}
	if upd.Access != nil {
		r.Access = slices.Clone(upd.Access)
	}
	r.UpdatedAt = time.Now().UTC()
	s.roles[id] = r
	return r, nil
}

func (s *memRoleStore) Delete(_ context.Context, id string) error {
	if _, ok := s.roles[id]; !ok {
		return ErrNotFound
	}
	delete(s.roles, id)
	return nil
}
