package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cpms.org/internal/ids"
	"cpms.org/internal/placement"
)

// CompanyStore persists recruiter profiles.
type CompanyStore struct {
	db *sql.DB
}

const companyColumns = `id, company_name, coalesce(description,''), coalesce(website,''),
	coalesce(location,''), coalesce(difficulty,''), created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (placement.Company, error) {
	var c placement.Company
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Website,
		&c.Location, &c.Difficulty, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return placement.Company{}, placement.ErrNotFound
	}
	if err != nil {
		return placement.Company{}, err
	}
	return c, nil
}

func (s *CompanyStore) Create(ctx context.Context, c *placement.Company) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into companies (id, company_name, description, website, location, difficulty)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at, updated_at
	`, c.ID, c.Name, nullIfEmpty(c.Description), nullIfEmpty(c.Website),
		nullIfEmpty(c.Location), nullIfEmpty(c.Difficulty)).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return placement.ErrConflict
		}
		return err
	}
	return nil
}

func (s *CompanyStore) FindByID(ctx context.Context, id string) (placement.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+companyColumns+` from companies where id = $1`, id)
	return scanCompany(row)
}

func (s *CompanyStore) FindByName(ctx context.Context, name string) (placement.Company, error) {
	// Duplicate detection is case-insensitive so "Acme" and "acme" collide.
	row := s.db.QueryRowContext(ctx,
		`select `+companyColumns+` from companies where lower(company_name) = lower($1)`, name)
	return scanCompany(row)
}

func (s *CompanyStore) List(ctx context.Context) ([]placement.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+companyColumns+` from companies order by company_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []placement.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *CompanyStore) Update(ctx context.Context, id string, upd placement.CompanyUpdate) (placement.Company, error) {
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
	if upd.Name != nil {
		set("company_name", *upd.Name)
	}
	if upd.Description != nil {
		set("description", nullIfEmpty(*upd.Description))
	}
	if upd.Website != nil {
		set("website", nullIfEmpty(*upd.Website))
	}
	if upd.Location != nil {
		set("location", nullIfEmpty(*upd.Location))
	}
	if upd.Difficulty != nil {
		set("difficulty", nullIfEmpty(*upd.Difficulty))
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update companies set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return placement.Company{}, placement.ErrConflict
			}
			return placement.Company{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return placement.Company{}, err
		}
		if aff == 0 {
			return placement.Company{}, placement.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

// Delete removes the company; job postings cascade through the schema's
// foreign key.
func (s *CompanyStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from companies where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return placement.ErrNotFound
	}
	return nil
}

// JobStore persists job postings.
type JobStore struct {
	db *sql.DB
}

const jobColumns = `id, company_id, title, coalesce(description,''),
	coalesce(salary,''), last_date, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (placement.Job, error) {
	var j placement.Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description,
		&j.Salary, &j.LastDate, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return placement.Job{}, placement.ErrNotFound
	}
	if err != nil {
		return placement.Job{}, err
	}
	return j, nil
}

func (s *JobStore) Create(ctx context.Context, j *placement.Job) error {
	if j.ID == "" {
		j.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into jobs (id, company_id, title, description, salary, last_date)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at, updated_at
	`, j.ID, j.CompanyID, j.Title, nullIfEmpty(j.Description),
		nullIfEmpty(j.Salary), j.LastDate).Scan(&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return placement.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *JobStore) FindByID(ctx context.Context, id string) (placement.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+jobColumns+` from jobs where id = $1`, id)
	return scanJob(row)
}

func (s *JobStore) List(ctx context.Context) ([]placement.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+jobColumns+` from jobs order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []placement.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *JobStore) Update(ctx context.Context, id string, upd placement.JobUpdate) (placement.Job, error) {
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
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", nullIfEmpty(*upd.Description))
	}
	if upd.Salary != nil {
		set("salary", nullIfEmpty(*upd.Salary))
	}
	if upd.LastDate != nil {
		set("last_date", *upd.LastDate)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update jobs set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return placement.Job{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return placement.Job{}, err
		}
		if aff == 0 {
			return placement.Job{}, placement.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from jobs where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return placement.ErrNotFound
	}
	return nil
}

// NoticeStore persists board announcements.
type NoticeStore struct {
	db *sql.DB
}

const noticeColumns = `id, sender, sender_role, receiver_role, title, message, created_at`

func scanNotice(row interface{ Scan(...any) error }) (placement.Notice, error) {
	var n placement.Notice
	err := row.Scan(&n.ID, &n.Sender, &n.SenderRole, &n.ReceiverRole,
		&n.Title, &n.Message, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return placement.Notice{}, placement.ErrNotFound
	}
	if err != nil {
		return placement.Notice{}, err
	}
	return n, nil
}

func (s *NoticeStore) Create(ctx context.Context, n *placement.Notice) error {
	if n.ID == "" {
		n.ID = ids.New()
	}
	return s.db.QueryRowContext(ctx, `
		insert into notices (id, sender, sender_role, receiver_role, title, message)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at
	`, n.ID, n.Sender, n.SenderRole, n.ReceiverRole, n.Title, n.Message).Scan(&n.CreatedAt)
}

func (s *NoticeStore) FindByID(ctx context.Context, id string) (placement.Notice, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+noticeColumns+` from notices where id = $1`, id)
	return scanNotice(row)
}

func (s *NoticeStore) List(ctx context.Context) ([]placement.Notice, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+noticeColumns+` from notices order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []placement.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notices, nil
}

// Delete removes the notice and returns it so callers can record what was
// taken down.
func (s *NoticeStore) Delete(ctx context.Context, id string) (placement.Notice, error) {
	row := s.db.QueryRowContext(ctx, `
		delete from notices where id = $1
		returning `+noticeColumns+`
	`, id)
	return scanNotice(row)
}

// AlumniStore persists placement-outcome snapshots.
type AlumniStore struct {
	db *sql.DB
}

const alumniColumns = `id, coalesce(student_id,''), first_name, coalesce(middle_name,''),
	last_name, email, uin, department, passing_year, placement_status,
	coalesce(company_id,''), coalesce(company_name,''), coalesce(job_title,''),
	coalesce(package_lpa, 0), coalesce(job_location,''), coalesce(created_by,''),
	coalesce(last_updated_by,''), created_at, updated_at`

func scanAlumni(row interface{ Scan(...any) error }) (placement.Alumni, error) {
	var a placement.Alumni
	err := row.Scan(&a.ID, &a.StudentID, &a.FirstName, &a.MiddleName,
		&a.LastName, &a.Email, &a.UIN, &a.Department, &a.PassingYear,
		&a.PlacementStatus, &a.CompanyID, &a.CompanyName, &a.JobTitle,
		&a.PackageLPA, &a.JobLocation, &a.CreatedBy, &a.LastUpdatedBy,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return placement.Alumni{}, placement.ErrNotFound
	}
	if err != nil {
		return placement.Alumni{}, err
	}
	return a, nil
}

func (s *AlumniStore) Create(ctx context.Context, a *placement.Alumni) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into alumni (id, student_id, first_name, middle_name, last_name,
			email, uin, department, passing_year, placement_status, company_id,
			company_name, job_title, package_lpa, job_location, created_by)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		returning created_at, updated_at
	`, a.ID, nullIfEmpty(a.StudentID), a.FirstName, nullIfEmpty(a.MiddleName),
		a.LastName, a.Email, a.UIN, a.Department, a.PassingYear, a.PlacementStatus,
		nullIfEmpty(a.CompanyID), nullIfEmpty(a.CompanyName), nullIfEmpty(a.JobTitle),
		a.PackageLPA, nullIfEmpty(a.JobLocation), nullIfEmpty(a.CreatedBy)).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return placement.ErrConflict
		}
		return err
	}
	return nil
}

func (s *AlumniStore) FindByID(ctx context.Context, id string) (placement.Alumni, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+alumniColumns+` from alumni where id = $1`, id)
	return scanAlumni(row)
}

func (s *AlumniStore) FindByUIN(ctx context.Context, uin string) (placement.Alumni, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+alumniColumns+` from alumni where uin = $1`, uin)
	return scanAlumni(row)
}

func (s *AlumniStore) FindByStudent(ctx context.Context, studentID string) (placement.Alumni, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+alumniColumns+` from alumni where student_id = $1`, studentID)
	return scanAlumni(row)
}

func (s *AlumniStore) List(ctx context.Context, filter placement.AlumniFilter) ([]placement.Alumni, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if filter.PassingYear != nil {
		where = append(where, fmt.Sprintf("passing_year = $%d", idx))
		args = append(args, *filter.PassingYear)
		idx++
	}
	if filter.Department != "" {
		where = append(where, fmt.Sprintf("department = $%d", idx))
		args = append(args, filter.Department)
		idx++
	}
	if filter.PlacementStatus != "" {
		where = append(where, fmt.Sprintf("placement_status = $%d", idx))
		args = append(args, filter.PlacementStatus)
		idx++
	}
	query := `select ` + alumniColumns + ` from alumni`
	if len(where) > 0 {
		query += ` where ` + strings.Join(where, " and ")
	}
	query += ` order by passing_year desc, last_name, first_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alumni []placement.Alumni
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, err
		}
		alumni = append(alumni, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alumni, nil
}

func (s *AlumniStore) Update(ctx context.Context, id string, upd placement.AlumniUpdate) (placement.Alumni, error) {
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
		set("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.UIN != nil {
		set("uin", *upd.UIN)
	}
	if upd.Department != nil {
		set("department", *upd.Department)
	}
	if upd.PassingYear != nil {
		set("passing_year", *upd.PassingYear)
	}
	if upd.PlacementStatus != nil {
		set("placement_status", *upd.PlacementStatus)
	}
	if upd.CompanyID != nil {
		set("company_id", nullIfEmpty(*upd.CompanyID))
	}
	if upd.CompanyName != nil {
		set("company_name", nullIfEmpty(*upd.CompanyName))
	}
	if upd.JobTitle != nil {
		set("job_title", nullIfEmpty(*upd.JobTitle))
	}
	if upd.PackageLPA != nil {
		set("package_lpa", *upd.PackageLPA)
	}
	if upd.JobLocation != nil {
		set("job_location", nullIfEmpty(*upd.JobLocation))
	}
	if upd.LastUpdatedBy != nil {
		set("last_updated_by", nullIfEmpty(*upd.LastUpdatedBy))
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update alumni set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return placement.Alumni{}, placement.ErrConflict
			}
			return placement.Alumni{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return placement.Alumni{}, err
		}
		if aff == 0 {
			return placement.Alumni{}, placement.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *AlumniStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from alumni where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return placement.ErrNotFound
	}
	return nil
}

func (s *AlumniStore) PassingYears(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`select distinct passing_year from alumni order by passing_year desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return years, nil
}

func (s *AlumniStore) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`select placement_status, count(*) from alumni group by placement_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// RecordStore persists the raw per-company placement counts that feed the
// report aggregation.
type RecordStore struct {
	db *sql.DB
}

func (s *RecordStore) Add(ctx context.Context, rec *placement.PlacementRecord) error {
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into placement_records (id, company_id, year, total_placed)
		values ($1, $2, $3, $4)
	`, rec.ID, rec.CompanyID, rec.Year, rec.TotalPlaced)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return placement.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context, year *int) ([]placement.PlacementRecord, error) {
	query := `
		select r.id, r.company_id, coalesce(c.company_name,''), r.year, r.total_placed
		from placement_records r
		left join companies c on c.id = r.company_id`
	var args []any
	if year != nil {
		query += ` where r.year = $1`
		args = append(args, *year)
	}
	query += ` order by r.year desc, c.company_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []placement.PlacementRecord
	for rows.Next() {
		var rec placement.PlacementRecord
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.CompanyName,
			&rec.Year, &rec.TotalPlaced); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
