package attendance

import (
	"math"
	"strings"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
)

// Action is what an accepted transition does to the day record.
type Action string

const (
	ActionCheckIn  Action = "CHECK_IN"
	ActionCheckOut Action = "CHECK_OUT"
)

// Decision is the outcome of one accepted transition.
type Decision struct {
	Action      Action
	Status      string
	LateMinutes int
	WorkMinutes int
}

// Transition applies one verified event to the current day state. It is
// pure: no I/O, no clock reads — the event's receipt time converted to
// company-local is the only "now". Callers persist the decision under
// the per-(employee, day) lock.
func Transition(
	current *attendance.Record,
	ev inbound.VerifiedEvent,
	comp company.Company,
	shift company.Shift,
	nowLocal time.Time,
) (Decision, error) {
	state := attendance.StateNone
	if current != nil {
		state = current.State
	}

	if state == attendance.StateOnLeave {
		return Decision{}, attendance.ErrAlreadyOnLeave
	}
	if state == attendance.StateCheckedOut {
		// A new distinct event after checkout, e.g. a second deliberate
		// check-in message. Pure retries never reach here; the
		// idempotency guard replays them.
		return Decision{}, attendance.ErrAlreadyFinalized
	}

	command := strings.ToLower(strings.TrimSpace(ev.Text))
	checkIn := strings.ToLower(strings.TrimSpace(comp.CheckInKeyword))
	checkOut := strings.ToLower(strings.TrimSpace(comp.CheckOutKeyword))

	switch state {
	case attendance.StateNone:
		switch command {
		case checkIn:
			return decideCheckIn(comp, shift, nowLocal)
		case checkOut:
			return Decision{}, attendance.ErrNoCheckInYet
		default:
			return Decision{}, attendance.ErrUnrecognizedCommand
		}

	case attendance.StateCheckedIn:
		switch command {
		case checkOut:
			if current.CheckIn == nil {
				return Decision{}, attendance.ErrNoCheckInYet
			}
			work := int(nowLocal.Sub(*current.CheckIn).Minutes())
			if work < 0 {
				work = 0
			}
			return Decision{
				Action:      ActionCheckOut,
				Status:      current.Status,
				WorkMinutes: work,
			}, nil
		case checkIn:
			return Decision{}, attendance.ErrAlreadyFinalized
		default:
			return Decision{}, attendance.ErrUnrecognizedCommand
		}
	}

	return Decision{}, attendance.ErrUnrecognizedCommand
}

// decideCheckIn classifies a first check-in against the shift window.
// The window is [start - early margin, end]; within [start, start+grace]
// is PRESENT, after grace is LATE.
func decideCheckIn(comp company.Company, shift company.Shift, nowLocal time.Time) (Decision, error) {
	midnight := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, nowLocal.Location())
	shiftStart := midnight.Add(time.Duration(shift.StartMinutes) * time.Minute)
	shiftEnd := midnight.Add(time.Duration(shift.EndMinutes) * time.Minute)

	earliest := shiftStart.Add(-time.Duration(comp.EarlyMarginMinutes) * time.Minute)
	graceLimit := shiftStart.Add(time.Duration(shift.GraceMinutes) * time.Minute)

	if nowLocal.Before(earliest) || nowLocal.After(shiftEnd) {
		return Decision{}, attendance.ErrOutsideWindow
	}

	status := attendance.StatusPresent
	lateMinutes := 0
	if nowLocal.After(graceLimit) {
		status = attendance.StatusLate
		// Counted from the scheduled start, not from the grace limit.
		if diff := nowLocal.Sub(shiftStart).Minutes(); diff > 0 {
			lateMinutes = int(math.Floor(diff))
		}
	}

	return Decision{
		Action:      ActionCheckIn,
		Status:      status,
		LateMinutes: lateMinutes,
	}, nil
}
