// Package pg implements the persistence interfaces on PostgreSQL through
// database/sql with the pgx stdlib driver.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"cpms.org/internal/audit"
	"cpms.org/internal/auth"
	"cpms.org/internal/placement"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store owns the connection pool and exposes one repository per aggregate.
type Store struct {
	db *sql.DB

	Users     *UserStore
	Roles     *RoleStore
	Companies *CompanyStore
	Jobs      *JobStore
	Notices   *NoticeStore
	Alumni    *AlumniStore
	Records   *RecordStore
	Audit     *AuditStore
}

var (
	_ auth.UserStore         = (*UserStore)(nil)
	_ auth.RoleStore         = (*RoleStore)(nil)
	_ placement.CompanyStore = (*CompanyStore)(nil)
	_ placement.JobStore     = (*JobStore)(nil)
	_ placement.NoticeStore  = (*NoticeStore)(nil)
	_ placement.AlumniStore  = (*AlumniStore)(nil)
	_ placement.RecordStore  = (*RecordStore)(nil)
	_ audit.Store            = (*AuditStore)(nil)
)

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing handle. Used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Users:     &UserStore{db: db},
		Roles:     &RoleStore{db: db},
		Companies: &CompanyStore{db: db},
		Jobs:      &JobStore{db: db},
		Notices:   &NoticeStore{db: db},
		Alumni:    &AlumniStore{db: db},
		Records:   &RecordStore{db: db},
		Audit:     &AuditStore{db: db},
	}
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies database connectivity, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
