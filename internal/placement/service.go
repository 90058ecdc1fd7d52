package placement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Service validates input and delegates to the stores. Handlers own HTTP
// concerns; all domain rules live here.
type Service struct {
	companies CompanyStore
	jobs      JobStore
	notices   NoticeStore
	alumni    AlumniStore
	records   RecordStore
}

// NewService constructs a Service.
func NewService(companies CompanyStore, jobs JobStore, notices NoticeStore, alumni AlumniStore, records RecordStore) *Service {
	return &Service{companies: companies, jobs: jobs, notices: notices, alumni: alumni, records: records}
}

// --- companies ---

// AddCompany creates a recruiter profile. Duplicate names are rejected.
func (s *Service) AddCompany(ctx context.Context, c Company) (Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Company{}, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if _, err := s.companies.FindByName(ctx, c.Name); err == nil {
		return Company{}, fmt.Errorf("%w: company %s", ErrConflict, c.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return Company{}, err
	}
	if err := s.companies.Create(ctx, &c); err != nil {
		return Company{}, err
	}
	return c, nil
}

// UpdateCompany applies the provided fields to an existing company.
func (s *Service) UpdateCompany(ctx context.Context, id string, upd CompanyUpdate) (Company, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Company{}, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Company{}, fmt.Errorf("%w: company name must be non-empty", ErrInvalidInput)
		}
		upd.Name = &name
	}
	return s.companies.Update(ctx, id, upd)
}

// Company loads one recruiter profile.
func (s *Service) Company(ctx context.Context, id string) (Company, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Company{}, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	return s.companies.FindByID(ctx, id)
}

// Companies lists every recruiter profile.
func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	return s.companies.List(ctx)
}

// DeleteCompany removes a company and its job postings.
func (s *Service) DeleteCompany(ctx context.Context, id string) (Company, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Company{}, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return Company{}, err
	}
	if err := s.companies.Delete(ctx, id); err != nil {
		return Company{}, err
	}
	return company, nil
}

// --- jobs ---

// PostJob creates a job posting for an existing company.
func (s *Service) PostJob(ctx context.Context, j Job) (Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	j.CompanyID = strings.TrimSpace(j.CompanyID)
	if j.Title == "" || j.CompanyID == "" {
		return Job{}, fmt.Errorf("%w: job title and company id are required", ErrInvalidInput)
	}
	if _, err := s.companies.FindByID(ctx, j.CompanyID); err != nil {
		return Job{}, err
	}
	if err := s.jobs.Create(ctx, &j); err != nil {
		return Job{}, err
	}
	return j, nil
}

// Job loads one posting.
func (s *Service) Job(ctx context.Context, id string) (Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return s.jobs.FindByID(ctx, id)
}

// Jobs lists every posting.
func (s *Service) Jobs(ctx context.Context) ([]Job, error) {
	return s.jobs.List(ctx)
}

// UpdateJob applies the provided fields to a posting.
func (s *Service) UpdateJob(ctx context.Context, id string, upd JobUpdate) (Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return Job{}, fmt.Errorf("%w: job title must be non-empty", ErrInvalidInput)
		}
		upd.Title = &title
	}
	return s.jobs.Update(ctx, id, upd)
}

// DeleteJob removes a posting.
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return s.jobs.Delete(ctx, id)
}

// --- notices ---

// SendNotice appends a board announcement. The receiver role defaults to
// student.
func (s *Service) SendNotice(ctx context.Context, n Notice) (Notice, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	if n.Message == "" {
		return Notice{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if strings.TrimSpace(n.ReceiverRole) == "" {
		n.ReceiverRole = "student"
	}
	if err := s.notices.Create(ctx, &n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

// Notices lists announcements, newest first.
func (s *Service) Notices(ctx context.Context) ([]Notice, error) {
	return s.notices.List(ctx)
}

// Notice loads one announcement.
func (s *Service) Notice(ctx context.Context, id string) (Notice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Notice{}, fmt.Errorf("%w: notice id is required", ErrInvalidInput)
	}
	return s.notices.FindByID(ctx, id)
}

// DeleteNotice removes an announcement and returns it for audit trails.
func (s *Service) DeleteNotice(ctx context.Context, id string) (Notice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Notice{}, fmt.Errorf("%w: notice id is required", ErrInvalidInput)
	}
	return s.notices.Delete(ctx, id)
}

// --- alumni ---

// CreateAlumni stores a placement-outcome snapshot. Duplicate student
// links and UINs are rejected.
func (s *Service) CreateAlumni(ctx context.Context, a Alumni) (Alumni, error) {
	if err := validateAlumni(&a); err != nil {
		return Alumni{}, err
	}
	if a.StudentID != "" {
		if _, err := s.alumni.FindByStudent(ctx, a.StudentID); err == nil {
			return Alumni{}, fmt.Errorf("%w: alumni record for student %s", ErrConflict, a.StudentID)
		} else if !errors.Is(err, ErrNotFound) {
			return Alumni{}, err
		}
	}
	if _, err := s.alumni.FindByUIN(ctx, a.UIN); err == nil {
		return Alumni{}, fmt.Errorf("%w: uin %s", ErrConflict, a.UIN)
	} else if !errors.Is(err, ErrNotFound) {
		return Alumni{}, err
	}
	if err := s.alumni.Create(ctx, &a); err != nil {
		return Alumni{}, err
	}
	return a, nil
}

func validateAlumni(a *Alumni) error {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	a.UIN = strings.TrimSpace(a.UIN)
	if a.FirstName == "" || a.LastName == "" || a.Email == "" || a.UIN == "" {
		return fmt.Errorf("%w: first_name, last_name, email and uin are required", ErrInvalidInput)
	}
	if !slices.Contains(Departments, a.Department) {
		return fmt.Errorf("%w: unknown department %s", ErrInvalidInput, a.Department)
	}
	if a.PassingYear < 1900 {
		return fmt.Errorf("%w: passing_year is required", ErrInvalidInput)
	}
	if a.PlacementStatus == "" {
		a.PlacementStatus = StatusNotPlaced
	}
	if !validPlacementStatus(a.PlacementStatus) {
		return fmt.Errorf("%w: unknown placement status %s", ErrInvalidInput, a.PlacementStatus)
	}
	return nil
}

func validPlacementStatus(s string) bool {
	switch s {
	case StatusPlaced, StatusHigherStudies, StatusEntrepreneur, StatusNotPlaced, StatusOther:
		return true
	}
	return false
}

// AlumniByID loads one record.
func (s *Service) AlumniByID(ctx context.Context, id string) (Alumni, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Alumni{}, fmt.Errorf("%w: alumni id is required", ErrInvalidInput)
	}
	return s.alumni.FindByID(ctx, id)
}

// ListAlumni returns records matching the filter, newest passing year
// first.
func (s *Service) ListAlumni(ctx context.Context, filter AlumniFilter) ([]Alumni, error) {
	return s.alumni.List(ctx, filter)
}

// UpdateAlumni applies the provided fields. A UIN change is checked for
// uniqueness.
func (s *Service) UpdateAlumni(ctx context.Context, id string, upd AlumniUpdate) (Alumni, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Alumni{}, fmt.Errorf("%w: alumni id is required", ErrInvalidInput)
	}
	current, err := s.alumni.FindByID(ctx, id)
	if err != nil {
		return Alumni{}, err
	}
	if upd.UIN != nil {
		uin := strings.TrimSpace(*upd.UIN)
		if uin == "" {
			return Alumni{}, fmt.Errorf("%w: uin must be non-empty", ErrInvalidInput)
		}
		if uin != current.UIN {
			if _, err := s.alumni.FindByUIN(ctx, uin); err == nil {
				return Alumni{}, fmt.Errorf("%w: uin %s", ErrConflict, uin)
			} else if !errors.Is(err, ErrNotFound) {
				return Alumni{}, err
			}
		}
		upd.UIN = &uin
	}
	if upd.Department != nil && !slices.Contains(Departments, *upd.Department) {
		return Alumni{}, fmt.Errorf("%w: unknown department %s", ErrInvalidInput, *upd.Department)
	}
	if upd.PlacementStatus != nil && !validPlacementStatus(*upd.PlacementStatus) {
		return Alumni{}, fmt.Errorf("%w: unknown placement status %s", ErrInvalidInput, *upd.PlacementStatus)
	}
	return s.alumni.Update(ctx, id, upd)
}

// DeleteAlumni removes a record.
func (s *Service) DeleteAlumni(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: alumni id is required", ErrInvalidInput)
	}
	return s.alumni.Delete(ctx, id)
}

// PassingYears returns distinct alumni passing years, descending.
func (s *Service) PassingYears(ctx context.Context) ([]int, error) {
	return s.alumni.PassingYears(ctx)
}

// PlacementStats returns alumni counts per placement status.
func (s *Service) PlacementStats(ctx context.Context) (map[string]int, error) {
	return s.alumni.StatusCounts(ctx)
}

// --- placement records ---

// AddRecord stores one aggregation input row.
func (s *Service) AddRecord(ctx context.Context, rec PlacementRecord) (PlacementRecord, error) {
	rec.CompanyID = strings.TrimSpace(rec.CompanyID)
	if rec.CompanyID == "" {
		return PlacementRecord{}, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	if rec.Year < 1900 {
		return PlacementRecord{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}
	if rec.TotalPlaced < 0 {
		return PlacementRecord{}, fmt.Errorf("%w: total_placed must be non-negative", ErrInvalidInput)
	}
	if _, err := s.companies.FindByID(ctx, rec.CompanyID); err != nil {
		return PlacementRecord{}, err
	}
	if err := s.records.Add(ctx, &rec); err != nil {
		return PlacementRecord{}, err
	}
	return rec, nil
}
