package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"cpms.org/internal/audit"
	"cpms.org/internal/auth"
	"cpms.org/internal/mail"
	"cpms.org/internal/placement"
)

// Stub stores with overridable fn fields. Unset lookups report not found;
// unset mutations succeed.

type stubUserStore struct {
	createFn         func(ctx context.Context, u *auth.User) error
	findByIDFn       func(ctx context.Context, id string) (auth.User, error)
	findByEmailFn    func(ctx context.Context, email string) (auth.User, error)
	listByRoleFn     func(ctx context.Context, role string) ([]auth.User, error)
	listWithStatusFn func(ctx context.Context) ([]auth.User, error)
	updateProfileFn  func(ctx context.Context, id string, upd auth.ProfileUpdate) (auth.User, error)
	setStatusFn      func(ctx context.Context, id, status string) error
	addAccessFn      func(ctx context.Context, id, perm string) (auth.User, error)
	removeAccessFn   func(ctx context.Context, id, perm string) (auth.User, error)
}

func (s *stubUserStore) Create(ctx context.Context, u *auth.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	u.ID = "user-stub"
	return nil
}

func (s *stubUserStore) FindByID(ctx context.Context, id string) (auth.User, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	if s.findByEmailFn != nil {
		return s.findByEmailFn(ctx, email)
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *stubUserStore) ListByRole(ctx context.Context, role string) ([]auth.User, error) {
	if s.listByRoleFn != nil {
		return s.listByRoleFn(ctx, role)
	}
	return nil, nil
}

func (s *stubUserStore) ListWithStatus(ctx context.Context) ([]auth.User, error) {
	if s.listWithStatusFn != nil {
		return s.listWithStatusFn(ctx)
	}
	return nil, nil
}

func (s *stubUserStore) UpdateProfile(ctx context.Context, id string, upd auth.ProfileUpdate) (auth.User, error) {
	if s.updateProfileFn != nil {
		return s.updateProfileFn(ctx, id, upd)
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *stubUserStore) UpdatePassword(context.Context, string, string) error { return nil }

func (s *stubUserStore) SetStatus(ctx context.Context, id, status string) error {
	if s.setStatusFn != nil {
		return s.setStatusFn(ctx, id, status)
	}
	return nil
}

func (s *stubUserStore) SetApproved(context.Context, string, bool) error { return nil }

func (s *stubUserStore) AddAccess(ctx context.Context, id, perm string) (auth.User, error) {
	if s.addAccessFn != nil {
		return s.addAccessFn(ctx, id, perm)
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *stubUserStore) RemoveAccess(ctx context.Context, id, perm string) (auth.User, error) {
	if s.removeAccessFn != nil {
		return s.removeAccessFn(ctx, id, perm)
	}
	return auth.User{}, auth.ErrNotFound
}

type stubRoleStore struct {
	upsertFn     func(ctx context.Context, role *auth.Role) (auth.Role, error)
	listFn       func(ctx context.Context) ([]auth.Role, error)
	findByIDFn   func(ctx context.Context, id string) (auth.Role, error)
	findByNameFn func(ctx context.Context, name string) (auth.Role, error)
	updateFn     func(ctx context.Context, id string, upd auth.RoleUpdate) (auth.Role, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (s *stubRoleStore) Upsert(ctx context.Context, role *auth.Role) (auth.Role, error) {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, role)
	}
	role.ID = "role-stub"
	return *role, nil
}

func (s *stubRoleStore) List(ctx context.Context) ([]auth.Role, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubRoleStore) FindByID(ctx context.Context, id string) (auth.Role, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return auth.Role{}, auth.ErrNotFound
}

func (s *stubRoleStore) FindByName(ctx context.Context, name string) (auth.Role, error) {
	if s.findByNameFn != nil {
		return s.findByNameFn(ctx, name)
	}
	return auth.Role{}, auth.ErrNotFound
}

func (s *stubRoleStore) Update(ctx context.Context, id string, upd auth.RoleUpdate) (auth.Role, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, upd)
	}
	return auth.Role{}, auth.ErrNotFound
}

func (s *stubRoleStore) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return auth.ErrNotFound
}

type stubCompanyStore struct {
	createFn     func(ctx context.Context, c *placement.Company) error
	findByIDFn   func(ctx context.Context, id string) (placement.Company, error)
	findByNameFn func(ctx context.Context, name string) (placement.Company, error)
	listFn       func(ctx context.Context) ([]placement.Company, error)
}

func (s *stubCompanyStore) Create(ctx context.Context, c *placement.Company) error {
	if s.createFn != nil {
		return s.createFn(ctx, c)
	}
	c.ID = "company-stub"
	return nil
}

func (s *stubCompanyStore) FindByID(ctx context.Context, id string) (placement.Company, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return placement.Company{}, placement.ErrNotFound
}

func (s *stubCompanyStore) FindByName(ctx context.Context, name string) (placement.Company, error) {
	if s.findByNameFn != nil {
		return s.findByNameFn(ctx, name)
	}
	return placement.Company{}, placement.ErrNotFound
}

func (s *stubCompanyStore) List(ctx context.Context) ([]placement.Company, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubCompanyStore) Update(context.Context, string, placement.CompanyUpdate) (placement.Company, error) {
	return placement.Company{}, placement.ErrNotFound
}

func (s *stubCompanyStore) Delete(context.Context, string) error { return placement.ErrNotFound }

type stubJobStore struct{}

func (stubJobStore) Create(_ context.Context, j *placement.Job) error {
	j.ID = "job-stub"
	return nil
}
func (stubJobStore) FindByID(context.Context, string) (placement.Job, error) {
	return placement.Job{}, placement.ErrNotFound
}
func (stubJobStore) List(context.Context) ([]placement.Job, error) { return nil, nil }
func (stubJobStore) Update(context.Context, string, placement.JobUpdate) (placement.Job, error) {
	return placement.Job{}, placement.ErrNotFound
}
func (stubJobStore) Delete(context.Context, string) error { return placement.ErrNotFound }

type stubNoticeStore struct{}

func (stubNoticeStore) Create(_ context.Context, n *placement.Notice) error {
	n.ID = "notice-stub"
	return nil
}
func (stubNoticeStore) FindByID(context.Context, string) (placement.Notice, error) {
	return placement.Notice{}, placement.ErrNotFound
}
func (stubNoticeStore) List(context.Context) ([]placement.Notice, error) { return nil, nil }
func (stubNoticeStore) Delete(context.Context, string) (placement.Notice, error) {
	return placement.Notice{}, placement.ErrNotFound
}

type stubAlumniStore struct{}

func (stubAlumniStore) Create(_ context.Context, a *placement.Alumni) error {
	a.ID = "alumni-stub"
	return nil
}
func (stubAlumniStore) FindByID(context.Context, string) (placement.Alumni, error) {
	return placement.Alumni{}, placement.ErrNotFound
}
func (stubAlumniStore) FindByUIN(context.Context, string) (placement.Alumni, error) {
	return placement.Alumni{}, placement.ErrNotFound
}
func (stubAlumniStore) FindByStudent(context.Context, string) (placement.Alumni, error) {
	return placement.Alumni{}, placement.ErrNotFound
}
func (stubAlumniStore) List(context.Context, placement.AlumniFilter) ([]placement.Alumni, error) {
	return nil, nil
}
func (stubAlumniStore) Update(context.Context, string, placement.AlumniUpdate) (placement.Alumni, error) {
	return placement.Alumni{}, placement.ErrNotFound
}
func (stubAlumniStore) Delete(context.Context, string) error          { return placement.ErrNotFound }
func (stubAlumniStore) PassingYears(context.Context) ([]int, error)   { return nil, nil }
func (stubAlumniStore) StatusCounts(context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

type stubRecordStore struct{}

func (stubRecordStore) Add(_ context.Context, rec *placement.PlacementRecord) error {
	rec.ID = "record-stub"
	return nil
}
func (stubRecordStore) List(context.Context, *int) ([]placement.PlacementRecord, error) {
	return nil, nil
}

type stubAuditStore struct{}

func (stubAuditStore) Append(context.Context, *audit.Entry) error { return nil }
func (stubAuditStore) List(context.Context, audit.Filter) ([]audit.Entry, int, error) {
	return nil, 0, nil
}
func (stubAuditStore) Clear(context.Context) error { return nil }

// testEnv bundles the wired API with the stub stores tests poke at.
type testEnv struct {
	api       *API
	tokens    *auth.Tokens
	users     *stubUserStore
	roles     *stubRoleStore
	companies *stubCompanyStore
	recorder  *audit.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := &stubUserStore{}
	roles := &stubRoleStore{}
	companies := &stubCompanyStore{}

	tokens, err := auth.NewTokens("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	allow := auth.NewAllowList(auth.DefaultPermissions()...)
	directory := auth.NewDirectory(users, roles, mail.Nop{})
	registry := auth.NewRegistry(roles, users, allow)
	placements := placement.NewService(companies, stubJobStore{}, stubNoticeStore{}, stubAlumniStore{}, stubRecordStore{})
	recorder := audit.NewRecorder(stubAuditStore{}, 8)
	t.Cleanup(recorder.Close)

	return &testEnv{
		api:       New(directory, registry, tokens, placements, recorder, nil, "test"),
		tokens:    tokens,
		users:     users,
		roles:     roles,
		companies: companies,
		recorder:  recorder,
	}
}

// seedUser makes the user resolvable through the authentication middleware
// and returns a bearer token for it.
func (e *testEnv) seedUser(t *testing.T, user auth.User) string {
	t.Helper()
	if user.ID == "" {
		user.ID = "user-" + user.Role
	}
	if user.Status == "" {
		user.Status = auth.StatusActive
	}
	prevByID := e.users.findByIDFn
	e.users.findByIDFn = func(ctx context.Context, id string) (auth.User, error) {
		if id == user.ID {
			return user, nil
		}
		if prevByID != nil {
			return prevByID(ctx, id)
		}
		return auth.User{}, auth.ErrNotFound
	}
	token, _, err := e.tokens.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.api.Handler().ServeHTTP(rec, req)
	return rec
}

func newRequestWithHeader(t *testing.T, env *testEnv, target, token, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	env.api.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}
