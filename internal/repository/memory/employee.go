package memory

import (
	"context"
	"sync"

	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
)

// EmployeeRepository is a seedable in-memory roster for tests and
// development runs. Lookups key on (company, normalized phone), the
// same shape the SQL index enforces.
type EmployeeRepository struct {
	mu      sync.RWMutex
	byPhone map[string]employee.Employee
	byID    map[string]employee.Employee
}

func NewEmployeeRepository(employees []employee.Employee) *EmployeeRepository {
	r := &EmployeeRepository{
		byPhone: make(map[string]employee.Employee, len(employees)),
		byID:    make(map[string]employee.Employee, len(employees)),
	}
	for _, emp := range employees {
		r.byPhone[emp.CompanyID+"|"+emp.Phone] = emp
		r.byID[emp.ID] = emp
	}
	return r
}

// GetByPhone implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByPhone(ctx context.Context, companyID string, phone string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.byPhone[companyID+"|"+phone]
	if !ok {
		return employee.Employee{}, employee.ErrUnknownEmployee
	}
	return emp, nil
}

// ListActiveByCompanyID implements employee.EmployeeRepository.
func (r *EmployeeRepository) ListActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var employees []employee.Employee
	for _, emp := range r.byID {
		if emp.CompanyID == companyID && emp.Status == employee.StatusActive {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

// ListCompanyIDs implements employee.EmployeeRepository.
func (r *EmployeeRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, emp := range r.byID {
		if emp.Status != employee.StatusActive || seen[emp.CompanyID] {
			continue
		}
		seen[emp.CompanyID] = true
		ids = append(ids, emp.CompanyID)
	}
	return ids, nil
}
