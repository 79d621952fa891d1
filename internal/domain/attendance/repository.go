package attendance

import (
	"context"
)

// MutateFunc receives the current record for a (employee, date) key, or
// nil when none exists, and returns the record to persist. Returning an
// error aborts the mutation and nothing is written.
type MutateFunc func(current *Record) (*Record, error)

// AttendanceRepository persists attendance records. Mutate is the only
// write path used by ingestion: implementations must serialize
// concurrent calls for the same (employeeID, date) key so that fn
// observes a consistent current state and its result commits atomically.
// Operations on different keys run in parallel.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns the record for the key, or nil when
	// none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*Record, error)

	// Mutate runs fn under per-key mutual exclusion and persists its
	// result. Returns ErrLockContention when the key lock cannot be
	// acquired in time.
	Mutate(ctx context.Context, employeeID string, date string, fn MutateFunc) (*Record, error)

	// ListEmployeesWithRecord returns employee ids that already have a
	// record for the date within a company. Used by the absence sweep.
	ListEmployeesWithRecord(ctx context.Context, companyID string, date string) ([]string, error)

	// CreateAbsences bulk-inserts end-of-day absence records, skipping
	// keys that gained a record in the meantime.
	CreateAbsences(ctx context.Context, records []Record) error
}
