package placement

import "context"

// CompanyStore manages recruiter profiles.
type CompanyStore interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id string) (Company, error)
	FindByName(ctx context.Context, name string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, id string, upd CompanyUpdate) (Company, error)
	// Delete removes the company and cascades its job postings.
	Delete(ctx context.Context, id string) error
}

// JobStore manages job postings.
type JobStore interface {
	Create(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id string) (Job, error)
	List(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, id string, upd JobUpdate) (Job, error)
	Delete(ctx context.Context, id string) error
}

// NoticeStore manages board announcements.
type NoticeStore interface {
	Create(ctx context.Context, n *Notice) error
	FindByID(ctx context.Context, id string) (Notice, error)
	// List returns notices newest first.
	List(ctx context.Context) ([]Notice, error)
	Delete(ctx context.Context, id string) (Notice, error)
}

// AlumniStore manages placement-outcome snapshots.
type AlumniStore interface {
	Create(ctx context.Context, a *Alumni) error
	FindByID(ctx context.Context, id string) (Alumni, error)
	FindByUIN(ctx context.Context, uin string) (Alumni, error)
	FindByStudent(ctx context.Context, studentID string) (Alumni, error)
	List(ctx context.Context, filter AlumniFilter) ([]Alumni, error)
	Update(ctx context.Context, id string, upd AlumniUpdate) (Alumni, error)
	Delete(ctx context.Context, id string) error
	PassingYears(ctx context.Context) ([]int, error)
	// StatusCounts returns the number of alumni per placement status.
	StatusCounts(ctx context.Context) (map[string]int, error)
}

// RecordStore holds the raw aggregation input for the placement report.
type RecordStore interface {
	Add(ctx context.Context, rec *PlacementRecord) error
	// List returns records joined with company names, optionally filtered
	// by year.
	List(ctx context.Context, year *int) ([]PlacementRecord, error)
}
