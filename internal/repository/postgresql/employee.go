package postgresql

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.RosterProvider {
	return &employeeRepositoryImpl{db: db}
}

// ListByRole implements employee.RosterProvider.
func (e *employeeRepositoryImpl) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	if !role.IsValid() {
		return nil, employee.ErrInvalidRole
	}
	q := GetQuerier(ctx, e.db)

	query, args, err := psql.Select("id", "name", "email", "role", "created_at").
		From("users").
		Where("role = ?", string(role)).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build roster query: %w", err)
	}

	employees := make([]employee.Employee, 0)
	if err := pgxscan.Select(ctx, q, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users with role %s: %w", role, err)
	}
	return employees, nil
}

// GetByID implements employee.RosterProvider.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = $1
	`

	var emp employee.Employee
	if err := pgxscan.Get(ctx, q, &emp, query, id); err != nil {
		if pgxscan.NotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return emp, nil
}
