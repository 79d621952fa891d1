package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
)

// AttendanceJobs holds the end-of-day maintenance jobs. The ingestion
// path never assigns ABSENT; this sweep does, for employees who sent
// nothing all day.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	companyRepo    company.CompanyRepository
	dispatcher     notification.Dispatcher
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	dispatcher notification.Dispatcher,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		companyRepo:    companyRepo,
		dispatcher:     dispatcher,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees creates ABSENT records for yesterday
// (company-local) for every active employee without a record. The
// insert skips keys that gained a record in the meantime, so running
// the job repeatedly is harmless.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	companyIDs, err := j.employeeRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	totalAbsent := 0

	for _, companyID := range companyIDs {
		comp, err := j.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to load company", "company_id", companyID, "error", err)
			continue
		}
		if comp.Status != company.StatusActive {
			continue
		}

		loc := comp.Location()
		nowLocal := time.Now().In(loc)

		// Sweep only in the first hours of the local day, after the
		// previous day is fully over.
		if nowLocal.Hour() > 3 {
			continue
		}
		yesterday := nowLocal.AddDate(0, 0, -1).Format("2006-01-02")

		employees, err := j.employeeRepo.ListActiveByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to list employees", "company_id", companyID, "error", err)
			continue
		}

		recorded, err := j.attendanceRepo.ListEmployeesWithRecord(ctx, companyID, yesterday)
		if err != nil {
			slog.Error("Cron: Failed to list recorded employees", "company_id", companyID, "error", err)
			continue
		}
		hasRecord := make(map[string]bool, len(recorded))
		for _, id := range recorded {
			hasRecord[id] = true
		}

		var absences []attendance.Record
		for _, emp := range employees {
			if hasRecord[emp.ID] {
				continue
			}
			absences = append(absences, attendance.Record{
				EmployeeID: emp.ID,
				CompanyID:  companyID,
				Date:       yesterday,
				State:      attendance.StateNone,
				Status:     attendance.StatusAbsent,
			})
		}

		if len(absences) == 0 {
			continue
		}

		if err := j.attendanceRepo.CreateAbsences(ctx, absences); err != nil {
			slog.Error("Cron: Failed to create absences", "company_id", companyID, "error", err)
			continue
		}
		totalAbsent += len(absences)

		if j.dispatcher != nil {
			_ = j.dispatcher.DispatchAlert(ctx, notification.ManagerAlert{
				CompanyID:  companyID,
				Summary:    fmt.Sprintf("%d employees were marked absent for %s", len(absences), yesterday),
				OccurredAt: time.Now(),
			})
		}
	}

	slog.Info("Cron: Marked absent employees", "count", totalAbsent)
	return nil
}
