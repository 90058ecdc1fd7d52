package placement

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// In-memory store implementations for service tests.

type memCompanyStore struct {
	seq       int
	companies map[string]Company
}

func newMemCompanyStore() *memCompanyStore {
	return &memCompanyStore{companies: make(map[string]Company)}
}

func (s *memCompanyStore) Create(_ context.Context, c *Company) error {
	s.seq++
	c.ID = fmt.Sprintf("company-%d", s.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.companies[c.ID] = *c
	return nil
}

func (s *memCompanyStore) FindByID(_ context.Context, id string) (Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return c, nil
}

func (s *memCompanyStore) FindByName(_ context.Context, name string) (Company, error) {
	for _, c := range s.companies {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

func (s *memCompanyStore) List(_ context.Context) ([]Company, error) {
	out := make([]Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	return out, nil
}

func (s *memCompanyStore) Update(_ context.Context, id string, upd CompanyUpdate) (Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Website != nil {
		c.Website = *upd.Website
	}
	if upd.Location != nil {
		c.Location = *upd.Location
	}
	if upd.Difficulty != nil {
		c.Difficulty = *upd.Difficulty
	}
	c.UpdatedAt = time.Now()
	s.companies[id] = c
	return c, nil
}

func (s *memCompanyStore) Delete(_ context.Context, id string) error {
	if _, ok := s.companies[id]; !ok {
		return ErrNotFound
	}
	delete(s.companies, id)
	return nil
}

type memNoticeStore struct {
	seq     int
	notices []Notice
}

func (s *memNoticeStore) Create(_ context.Context, n *Notice) error {
	s.seq++
	n.ID = fmt.Sprintf("notice-%d", s.seq)
	n.CreatedAt = time.Now()
	s.notices = append(s.notices, *n)
	return nil
}

func (s *memNoticeStore) FindByID(_ context.Context, id string) (Notice, error) {
	for _, n := range s.notices {
		if n.ID == id {
			return n, nil
		}
	}
	return Notice{}, ErrNotFound
}

func (s *memNoticeStore) List(_ context.Context) ([]Notice, error) {
	out := slices.Clone(s.notices)
	slices.Reverse(out)
	return out, nil
}

func (s *memNoticeStore) Delete(_ context.Context, id string) (Notice, error) {
	for i, n := range s.notices {
		if n.ID == id {
			s.notices = slices.Delete(s.notices, i, i+1)
			return n, nil
		}
	}
	return Notice{}, ErrNotFound
}

type memAlumniStore struct {
	seq     int
	records map[string]Alumni
}

func newMemAlumniStore() *memAlumniStore {
	return &memAlumniStore{records: make(map[string]Alumni)}
}

func (s *memAlumniStore) Create(_ context.Context, a *Alumni) error {
	s.seq++
	a.ID = fmt.Sprintf("alumni-%d", s.seq)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.records[a.ID] = *a
	return nil
}

func (s *memAlumniStore) FindByID(_ context.Context, id string) (Alumni, error) {
	a, ok := s.records[id]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	return a, nil
}

func (s *memAlumniStore) FindByUIN(_ context.Context, uin string) (Alumni, error) {
	for _, a := range s.records {
		if a.UIN == uin {
			return a, nil
		}
	}
	return Alumni{}, ErrNotFound
}

func (s *memAlumniStore) FindByStudent(_ context.Context, studentID string) (Alumni, error) {
	for _, a := range s.records {
		if a.StudentID == studentID {
			return a, nil
		}
	}
	return Alumni{}, ErrNotFound
}

func (s *memAlumniStore) List(_ context.Context, filter AlumniFilter) ([]Alumni, error) {
	var out []Alumni
	for _, a := range s.records {
		if filter.PassingYear != nil && a.PassingYear != *filter.PassingYear {
			continue
		}
		if filter.Department != "" && a.Department != filter.Department {
			continue
		}
		if filter.PlacementStatus != "" && a.PlacementStatus != filter.PlacementStatus {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PassingYear > out[j].PassingYear })
	return out, nil
}

func (s *memAlumniStore) Update(_ context.Context, id string, upd AlumniUpdate) (Alumni, error) {
	a, ok := s.records[id]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	if upd.UIN != nil {
		a.UIN = *upd.UIN
	}
	if upd.Department != nil {
		a.Department = *upd.Department
	}
	if upd.PassingYear != nil {
		a.PassingYear = *upd.PassingYear
	}
	if upd.PlacementStatus != nil {
		a.PlacementStatus = *upd.PlacementStatus
	}
	if upd.LastUpdatedBy != nil {
		a.LastUpdatedBy = *upd.LastUpdatedBy
	}
	a.UpdatedAt = time.Now()
	s.records[id] = a
	return a, nil
}

func (s *memAlumniStore) Delete(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memAlumniStore) PassingYears(_ context.Context) ([]int, error) {
	seen := make(map[int]struct{})
	var years []int
	for _, a := range s.records {
		if _, ok := seen[a.PassingYear]; ok {
			continue
		}
		seen[a.PassingYear] = struct{}{}
		years = append(years, a.PassingYear)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (s *memAlumniStore) StatusCounts(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, a := range s.records {
		counts[a.PlacementStatus]++
	}
	return counts, nil
}

type memRecordStore struct {
	seq     int
	records []PlacementRecord
}

func (s *memRecordStore) Add(_ context.Context, rec *PlacementRecord) error {
	s.seq++
	rec.ID = fmt.Sprintf("record-%d", s.seq)
	s.records = append(s.records, *rec)
	return nil
}

func (s *memRecordStore) List(_ context.Context, year *int) ([]PlacementRecord, error) {
	var out []PlacementRecord
	for _, rec := range s.records {
		if year != nil && rec.Year != *year {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type memJobStore struct {
	seq  int
	jobs map[string]Job
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: make(map[string]Job)}
}

func (s *memJobStore) Create(_ context.Context, j *Job) error {
	s.seq++
	j.ID = fmt.Sprintf("job-%d", s.seq)
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	s.jobs[j.ID] = *j
	return nil
}

func (s *memJobStore) FindByID(_ context.Context, id string) (Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

func (s *memJobStore) List(_ context.Context) ([]Job, error) {
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (s *memJobStore) Update(_ context.Context, id string, upd JobUpdate) (Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	if upd.Title != nil {
		j.Title = *upd.Title
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.Salary != nil {
		j.Salary = *upd.Salary
	}
	if upd.LastDate != nil {
		j.LastDate = *upd.LastDate
	}
	j.UpdatedAt = time.Now()
	s.jobs[id] = j
	return j, nil
}

func (s *memJobStore) Delete(_ context.Context, id string) error {
	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func newTestService() (*Service, *memCompanyStore, *memAlumniStore, *memRecordStore) {
	companies := newMemCompanyStore()
	jobs := newMemJobStore()
	notices := &memNoticeStore{}
	alumni := newMemAlumniStore()
	records := &memRecordStore{}
	return NewService(companies, jobs, notices, alumni, records), companies, alumni, records
}
