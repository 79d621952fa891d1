package attendance

import (
	"time"
)

// DayState is the per-(employee, local day) lifecycle. ON_LEAVE is a
// parallel terminal state entered only through the leave collaborator,
// never through chat events.
type DayState string

const (
	StateNone       DayState = "NONE"
	StateCheckedIn  DayState = "CHECKED_IN"
	StateCheckedOut DayState = "CHECKED_OUT"
	StateOnLeave    DayState = "ON_LEAVE"
)

// Status values computed at check-in or by the end-of-day sweep.
const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
	StatusLeave   = "LEAVE"
)

// Record is one employee's attendance for one calendar day in the
// company's timezone. At most one exists per (employee, date); once the
// state reaches CHECKED_OUT or ON_LEAVE it is immutable from the
// ingestion path.
type Record struct {
	ID         string
	EmployeeID string
	CompanyID  string
	// Date is the local day key, formatted "2006-01-02".
	Date    string
	State   DayState
	ShiftID *string

	CheckIn           *time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInSelfieURL  *string
	CheckOut          *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutSelfieURL *string

	Status      string
	LateMinutes *int
	// WorkMinutes is check-out minus check-in, filled at check-out.
	WorkMinutes *int
	LeaveNote   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
