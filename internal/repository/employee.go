package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// ErrEmptyLookup is returned when neither a user ID nor a full name is given.
var ErrEmptyLookup = errors.New("employee lookup needs a user id or a full name")

// Employee retrieves an employee by Telegram user ID or, when the ID is zero, by full name.
func (r *Repository) Employee(ctx context.Context, lookup models.EmployeeLookup) (models.Employee, error) {
	var (
		query string
		arg   any
	)
	switch {
	case lookup.UserID != 0:
		query, arg = SelectEmployeeByUserIDSQL, lookup.UserID
	case lookup.FullName != "":
		query, arg = SelectEmployeeByFullNameSQL, lookup.FullName
	default:
		return models.Employee{}, ErrEmptyLookup
	}

	var (
		employee models.Employee
		role     int32
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.UserID,
		&employee.FullName,
		&employee.Username,
		&employee.Position,
		&employee.Division,
		&employee.Head,
		&role,
		&employee.IsCasinoAllowed,
	)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee: %w", classify(err))
	}
	employee.Role = org.Role(role)

	return employee, nil
}
