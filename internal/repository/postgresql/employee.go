package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByPhone implements employee.EmployeeRepository. The phone column
// stores the normalized form, so the lookup is an exact match.
func (r *employeeRepository) GetByPhone(ctx context.Context, companyID string, phone string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, phone, shift_id, status, created_at, updated_at
		FROM employees
		WHERE company_id = $1 AND phone = $2
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, companyID, phone).Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.Phone, &emp.ShiftID, &emp.Status,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrUnknownEmployee
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by phone: %w", err)
	}

	return emp, nil
}

// ListActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepository) ListActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, phone, shift_id, status, created_at, updated_at
		FROM employees
		WHERE company_id = $1 AND status = $2
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, companyID, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.FullName, &emp.Phone, &emp.ShiftID, &emp.Status,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

// ListCompanyIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT company_id
		FROM employees
		WHERE status = $1
	`

	rows, err := q.Query(ctx, query, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list company ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read company ids: %w", err)
	}

	return ids, nil
}
