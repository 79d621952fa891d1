package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
)

// AttendanceRepository is the in-memory implementation used by tests
// and single-process development runs. Per-key mutual exclusion is one
// mutex per (employee, date) key; distinct keys mutate in parallel.
type AttendanceRepository struct {
	mu      sync.Mutex
	records map[string]*attendance.Record
	locks   map[string]*sync.Mutex
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]*attendance.Record),
		locks:   make(map[string]*sync.Mutex),
	}
}

func recordKey(employeeID, date string) string {
	return employeeID + "|" + date
}

func (r *AttendanceRepository) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, ok := r.locks[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	r.locks[key] = lock
	return lock
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

// Mutate implements attendance.AttendanceRepository. fn receives a copy
// of the stored record so an aborted mutation leaves no trace.
func (r *AttendanceRepository) Mutate(ctx context.Context, employeeID string, date string, fn attendance.MutateFunc) (*attendance.Record, error) {
	key := recordKey(employeeID, date)
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	var current *attendance.Record
	r.mu.Lock()
	if rec, ok := r.records[key]; ok {
		clone := *rec
		current = &clone
	}
	r.mu.Unlock()

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}

	now := time.Now()
	if next.ID == "" {
		next.ID = uuid.NewString()
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	stored := *next
	r.mu.Lock()
	r.records[key] = &stored
	r.mu.Unlock()

	result := stored
	return &result, nil
}

// ListEmployeesWithRecord implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListEmployeesWithRecord(ctx context.Context, companyID string, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.Date == date {
			ids = append(ids, rec.EmployeeID)
		}
	}
	return ids, nil
}

// CreateAbsences implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CreateAbsences(ctx context.Context, records []attendance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, rec := range records {
		key := recordKey(rec.EmployeeID, rec.Date)
		if _, exists := r.records[key]; exists {
			continue
		}
		stored := rec
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.records[key] = &stored
	}
	return nil
}
