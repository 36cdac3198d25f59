package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"timesheet.service/internal/core/model"
)

const timeOffColumns = `id, title, description, start_date, end_date, scope, roles,
       affected_count, created_by, created_at, updated_at`

// TimeOffRepo stores calendar entries in PostgreSQL.
type TimeOffRepo struct {
	DB *sql.DB
}

// NewTimeOffRepository create new instance
func NewTimeOffRepository(db *sql.DB) *TimeOffRepo {
	return &TimeOffRepo{DB: db}
}

func scanTimeOff(row rowScanner) (*model.TimeOffEntry, error) {
	var (
		e       model.TimeOffEntry
		endDate sql.NullTime
		scope   string
		roles   string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &endDate, &scope, &roles,
		&e.AffectedCount, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		t := endDate.Time
		e.EndDate = &t
	}
	e.Scope = model.TimeOffScope(scope)
	e.Roles = splitRoles(roles)
	return &e, nil
}

// Roles are stored as a comma separated list.
func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func splitRoles(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *TimeOffRepo) CreateTimeOff(ctx context.Context, e *model.TimeOffEntry) error {
	query := `INSERT INTO time_off_entries (` + timeOffColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.StartDate, e.EndDate, string(e.Scope), joinRoles(e.Roles),
		e.AffectedCount, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *TimeOffRepo) UpdateTimeOff(ctx context.Context, e *model.TimeOffEntry) error {
	query := `UPDATE time_off_entries
              SET title = $1, description = $2, start_date = $3, end_date = $4,
                  scope = $5, roles = $6, affected_count = $7, updated_at = $8
              WHERE id = $9`

	res, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, string(e.Scope), joinRoles(e.Roles),
		e.AffectedCount, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *TimeOffRepo) DeleteTimeOff(ctx context.Context, id string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM time_off_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *TimeOffRepo) GetTimeOff(ctx context.Context, id string) (*model.TimeOffEntry, error) {
	query := `SELECT ` + timeOffColumns + ` FROM time_off_entries WHERE id = $1`

	e, err := scanTimeOff(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return e, err
}

// ListTimeOff returns every calendar entry ordered by start date.
func (r *TimeOffRepo) ListTimeOff(ctx context.Context) ([]model.TimeOffEntry, error) {
	query := `SELECT ` + timeOffColumns + ` FROM time_off_entries ORDER BY start_date, id`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeOffEntry
	for rows.Next() {
		e, err := scanTimeOff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
