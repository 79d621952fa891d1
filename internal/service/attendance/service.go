package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
	"github.com/hadirly/attendance-backend-go/internal/pkg/validator"
)

// lockRetries bounds internal retries on per-day lock contention before
// the failure surfaces as a transient error.
const lockRetries = 3

type RecorderService struct {
	repo attendance.AttendanceRepository
}

func NewRecorderService(repo attendance.AttendanceRepository) *RecorderService {
	return &RecorderService{repo: repo}
}

// Apply commits one verified event against the employee's day record.
// The state machine runs inside the repository's per-key mutual
// exclusion, so two racing events for the same employee and day can
// never both succeed.
func (s *RecorderService) Apply(
	ctx context.Context,
	comp company.Company,
	emp employee.Employee,
	ev inbound.VerifiedEvent,
) (*attendance.Record, Decision, error) {
	shift := shiftFor(comp, emp)
	if shift == nil {
		return nil, Decision{}, attendance.ErrNoShiftConfigured
	}

	loc := comp.Location()
	nowLocal := ev.ReceivedAt.In(loc)
	date := nowLocal.Format("2006-01-02")

	var decision Decision

	var record *attendance.Record
	var err error
	for attempt := 0; attempt < lockRetries; attempt++ {
		record, err = s.repo.Mutate(ctx, emp.ID, date, func(current *attendance.Record) (*attendance.Record, error) {
			var tErr error
			decision, tErr = Transition(current, ev, comp, *shift, nowLocal)
			if tErr != nil {
				return nil, tErr
			}
			return applyDecision(current, decision, comp, emp, *shift, ev, date), nil
		})
		if !errors.Is(err, attendance.ErrLockContention) {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	if err != nil {
		return nil, Decision{}, err
	}

	return record, decision, nil
}

// MarkLeave enters the parallel ON_LEAVE terminal state for a day. Only
// the leave-approval collaborator calls this; chat events can never
// reach it. A day that is already checked out stays immutable.
func (s *RecorderService) MarkLeave(ctx context.Context, companyID, employeeID, date, note string) (*attendance.Record, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return nil, fmt.Errorf("invalid leave date %q", date)
	}

	record, err := s.repo.Mutate(ctx, employeeID, date, func(current *attendance.Record) (*attendance.Record, error) {
		if current != nil && current.State == attendance.StateCheckedOut {
			return nil, attendance.ErrAlreadyFinalized
		}
		rec := current
		if rec == nil {
			rec = &attendance.Record{
				EmployeeID: employeeID,
				CompanyID:  companyID,
				Date:       date,
			}
		}
		rec.State = attendance.StateOnLeave
		rec.Status = attendance.StatusLeave
		if !validator.IsEmpty(note) {
			rec.LeaveNote = &note
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark leave: %w", err)
	}
	return record, nil
}

func shiftFor(comp company.Company, emp employee.Employee) *company.Shift {
	if emp.ShiftID != nil {
		if sh := comp.ShiftByID(*emp.ShiftID); sh != nil {
			return sh
		}
	}
	return comp.DefaultShift()
}

// applyDecision builds the record to persist for an accepted decision.
func applyDecision(
	current *attendance.Record,
	decision Decision,
	comp company.Company,
	emp employee.Employee,
	shift company.Shift,
	ev inbound.VerifiedEvent,
	date string,
) *attendance.Record {
	eventUTC := ev.ReceivedAt.UTC()

	switch decision.Action {
	case ActionCheckIn:
		rec := &attendance.Record{
			EmployeeID:  emp.ID,
			CompanyID:   comp.ID,
			Date:        date,
			State:       attendance.StateCheckedIn,
			ShiftID:     &shift.ID,
			CheckIn:     &eventUTC,
			Status:      decision.Status,
			LateMinutes: &decision.LateMinutes,
		}
		if ev.Coords != nil {
			rec.CheckInLatitude = &ev.Coords.Latitude
			rec.CheckInLongitude = &ev.Coords.Longitude
		}
		if ev.SelfieURL != "" {
			rec.CheckInSelfieURL = &ev.SelfieURL
		}
		return rec

	case ActionCheckOut:
		rec := *current
		rec.State = attendance.StateCheckedOut
		rec.CheckOut = &eventUTC
		rec.WorkMinutes = &decision.WorkMinutes
		if ev.Coords != nil {
			rec.CheckOutLatitude = &ev.Coords.Latitude
			rec.CheckOutLongitude = &ev.Coords.Longitude
		}
		if ev.SelfieURL != "" {
			rec.CheckOutSelfieURL = &ev.SelfieURL
		}
		return &rec
	}

	return current
}
