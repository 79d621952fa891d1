package employee

import (
	"context"
)

// EmployeeRepository is consumed read-only by the ingestion path.
// Resolution is always device-scoped first, so every lookup carries the
// company id.
type EmployeeRepository interface {
	// GetByPhone finds the employee with the given normalized phone
	// within one company. Returns ErrUnknownEmployee when no match.
	GetByPhone(ctx context.Context, companyID string, phone string) (Employee, error)

	// ListActiveByCompanyID returns every active employee of a company,
	// used by the end-of-day absence sweep.
	ListActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ListCompanyIDs returns the distinct company ids that have active
	// employees.
	ListCompanyIDs(ctx context.Context) ([]string, error)
}
