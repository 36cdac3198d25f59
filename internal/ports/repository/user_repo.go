package repository

import (
	"context"
	"database/sql"

	"timesheet.service/internal/core/model"
)

// UserRepo reads the portal user directory.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepository create new instance
func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, name, email, role, active FROM users ORDER BY name, id`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			u    model.User
			role string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Active); err != nil {
			return nil, err
		}
		if parsed, ok := model.ParseRole(role); ok {
			u.Role = parsed
		} else {
			u.Role = model.Role(role)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
