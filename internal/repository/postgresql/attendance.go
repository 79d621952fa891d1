package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `
	id, employee_id, company_id, date, state, shift_id,
	check_in, check_in_latitude, check_in_longitude, check_in_selfie_url,
	check_out, check_out_latitude, check_out_longitude, check_out_selfie_url,
	status, late_minutes, work_minutes, leave_note,
	created_at, updated_at
`

func scanRecord(row pgx.Row) (*attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.State, &rec.ShiftID,
		&rec.CheckIn, &rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInSelfieURL,
		&rec.CheckOut, &rec.CheckOutLatitude, &rec.CheckOutLongitude, &rec.CheckOutSelfieURL,
		&rec.Status, &rec.LateMinutes, &rec.WorkMinutes, &rec.LeaveNote,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// Mutate implements attendance.AttendanceRepository. The per-key mutual
// exclusion is a transaction-scoped advisory lock on the (employee,
// date) pair: a second writer for the same key blocks until the first
// commits, then observes the committed record. Writers for other keys
// proceed in parallel.
func (r *attendanceRepository) Mutate(ctx context.Context, employeeID string, date string, fn attendance.MutateFunc) (*attendance.Record, error) {
	var result *attendance.Record

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var locked bool
		lockQuery := `SELECT pg_try_advisory_xact_lock(hashtext($1 || '|' || $2))`
		if err := tx.QueryRow(ctx, lockQuery, employeeID, date).Scan(&locked); err != nil {
			return fmt.Errorf("failed to acquire day lock: %w", err)
		}
		if !locked {
			return attendance.ErrLockContention
		}

		selectQuery := `
			SELECT ` + recordColumns + `
			FROM attendance_records
			WHERE employee_id = $1 AND date = $2
		`
		current, err := scanRecord(tx.QueryRow(ctx, selectQuery, employeeID, date))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to load current record: %w", err)
			}
			current = nil
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			result = current
			return nil
		}

		upsertQuery := `
			INSERT INTO attendance_records (
				employee_id, company_id, date, state, shift_id,
				check_in, check_in_latitude, check_in_longitude, check_in_selfie_url,
				check_out, check_out_latitude, check_out_longitude, check_out_selfie_url,
				status, late_minutes, work_minutes, leave_note
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
			)
			ON CONFLICT (employee_id, date) DO UPDATE SET
				state = EXCLUDED.state,
				shift_id = EXCLUDED.shift_id,
				check_in = EXCLUDED.check_in,
				check_in_latitude = EXCLUDED.check_in_latitude,
				check_in_longitude = EXCLUDED.check_in_longitude,
				check_in_selfie_url = EXCLUDED.check_in_selfie_url,
				check_out = EXCLUDED.check_out,
				check_out_latitude = EXCLUDED.check_out_latitude,
				check_out_longitude = EXCLUDED.check_out_longitude,
				check_out_selfie_url = EXCLUDED.check_out_selfie_url,
				status = EXCLUDED.status,
				late_minutes = EXCLUDED.late_minutes,
				work_minutes = EXCLUDED.work_minutes,
				leave_note = EXCLUDED.leave_note,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRow(ctx, upsertQuery,
			next.EmployeeID, next.CompanyID, next.Date, next.State, next.ShiftID,
			next.CheckIn, next.CheckInLatitude, next.CheckInLongitude, next.CheckInSelfieURL,
			next.CheckOut, next.CheckOutLatitude, next.CheckOutLongitude, next.CheckOutSelfieURL,
			next.Status, next.LateMinutes, next.WorkMinutes, next.LeaveNote,
		).Scan(&next.ID, &next.CreatedAt, &next.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert attendance record: %w", err)
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployeesWithRecord implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListEmployeesWithRecord(ctx context.Context, companyID string, date string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM attendance_records
		WHERE company_id = $1 AND date = $2
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded employees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recorded employees: %w", err)
	}

	return ids, nil
}

// CreateAbsences implements attendance.AttendanceRepository. The insert
// skips keys that gained a record between the sweep's read and this
// write, so the sweep never overwrites a real check-in.
func (r *attendanceRepository) CreateAbsences(ctx context.Context, records []attendance.Record) error {
	if len(records) == 0 {
		return nil
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO attendance_records (employee_id, company_id, date, state, status)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (employee_id, date) DO NOTHING
		`
		for _, rec := range records {
			if _, err := tx.Exec(ctx, query, rec.EmployeeID, rec.CompanyID, rec.Date, rec.State, rec.Status); err != nil {
				return fmt.Errorf("failed to insert absence: %w", err)
			}
		}
		return nil
	})
}
