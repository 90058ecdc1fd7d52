package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cpms.org/internal/audit"
	"cpms.org/internal/ids"
)

// AuditStore persists the activity trail.
type AuditStore struct {
	db *sql.DB
}

func (s *AuditStore) Append(ctx context.Context, e *audit.Entry) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into audit_logs (id, action_type, description, performed_by, role, occurred_at)
		values ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.ActionType, e.Description, e.PerformedBy, e.Role, e.OccurredAt)
	return err
}

func (s *AuditStore) List(ctx context.Context, f audit.Filter) ([]audit.Entry, int, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if f.PerformedBy != "" {
		where = append(where, fmt.Sprintf("performed_by ilike $%d", idx))
		args = append(args, "%"+f.PerformedBy+"%")
		idx++
	}
	if patterns := audit.TypePatterns(f.Type); len(patterns) > 0 {
		var ors []string
		for _, p := range patterns {
			ors = append(ors, fmt.Sprintf("action_type ilike $%d", idx))
			args = append(args, p)
			idx++
		}
		where = append(where, "("+strings.Join(ors, " or ")+")")
	}
	cond := ""
	if len(where) > 0 {
		cond = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`select count(*) from audit_logs`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		select id, action_type, description, performed_by, role, occurred_at
		from audit_logs%s
		order by occurred_at desc
		limit $%d offset $%d
	`, cond, idx, idx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ActionType, &e.Description,
			&e.PerformedBy, &e.Role, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *AuditStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `delete from audit_logs`)
	return err
}
