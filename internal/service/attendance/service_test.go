package attendance

import (
	"context"
	"testing"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:        "emp-1",
		CompanyID: "comp-1",
		Phone:     "6281234567890",
		Status:    employee.StatusActive,
	}
}

func shiftedCompany() company.Company {
	comp := testCompany()
	comp.Shifts = []company.Shift{testShift()}
	return comp
}

func TestRecorder_ApplyPersistsCheckIn(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	recorder := NewRecorderService(repo)
	ctx := context.Background()

	ev := textEvent("hadir")
	ev.ReceivedAt = localTime(t, 9, 10, 0)

	rec, decision, err := recorder.Apply(ctx, shiftedCompany(), testEmployee(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionCheckIn, decision.Action)
	assert.Equal(t, attendance.StatusPresent, decision.Status)

	require.NotNil(t, rec)
	assert.Equal(t, "2026-03-02", rec.Date)
	assert.Equal(t, attendance.StateCheckedIn, rec.State)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, ev.ReceivedAt.UTC(), *rec.CheckIn)
	require.NotNil(t, rec.ShiftID)
	assert.Equal(t, "shift-1", *rec.ShiftID)
}

func TestRecorder_ApplyWithoutShift(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	recorder := NewRecorderService(repo)

	comp := testCompany() // no shifts configured
	ev := textEvent("hadir")
	ev.ReceivedAt = localTime(t, 9, 10, 0)

	_, _, err := recorder.Apply(context.Background(), comp, testEmployee(), ev)
	assert.ErrorIs(t, err, attendance.ErrNoShiftConfigured)
}

func TestRecorder_AssignedShiftOverridesDefault(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	recorder := NewRecorderService(repo)

	comp := shiftedCompany()
	// 13:00 to 21:00 evening shift.
	comp.Shifts = append(comp.Shifts, company.Shift{
		ID:           "shift-evening",
		CompanyID:    comp.ID,
		Name:         "Evening",
		StartMinutes: 13 * 60,
		EndMinutes:   21 * 60,
		GraceMinutes: 15,
	})

	emp := testEmployee()
	shiftID := "shift-evening"
	emp.ShiftID = &shiftID

	ev := textEvent("hadir")
	ev.ReceivedAt = localTime(t, 13, 5, 0)

	rec, decision, err := recorder.Apply(context.Background(), comp, emp, ev)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, decision.Status)
	assert.Equal(t, "shift-evening", *rec.ShiftID)

	// The same time against the default 09:00 shift would be outside
	// the window for a plain employee.
	_, _, err = recorder.Apply(context.Background(), comp, testEmployee(), ev)
	assert.ErrorIs(t, err, attendance.ErrOutsideWindow)
}

func TestRecorder_MarkLeave(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	recorder := NewRecorderService(repo)
	ctx := context.Background()

	rec, err := recorder.MarkLeave(ctx, "comp-1", "emp-1", "2026-03-02", "annual leave")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnLeave, rec.State)
	assert.Equal(t, attendance.StatusLeave, rec.Status)
	require.NotNil(t, rec.LeaveNote)
	assert.Equal(t, "annual leave", *rec.LeaveNote)

	// A chat check-in for that day is now rejected.
	ev := textEvent("hadir")
	ev.ReceivedAt = localTime(t, 9, 10, 0)
	_, _, err = recorder.Apply(ctx, shiftedCompany(), testEmployee(), ev)
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnLeave)
}

func TestRecorder_MarkLeaveAfterCheckOut(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	recorder := NewRecorderService(repo)
	ctx := context.Background()

	checkIn := textEvent("hadir")
	checkIn.ReceivedAt = localTime(t, 9, 0, 0)
	_, _, err := recorder.Apply(ctx, shiftedCompany(), testEmployee(), checkIn)
	require.NoError(t, err)

	checkOut := textEvent("pulang")
	checkOut.ReceivedAt = localTime(t, 17, 0, 0)
	_, _, err = recorder.Apply(ctx, shiftedCompany(), testEmployee(), checkOut)
	require.NoError(t, err)

	_, err = recorder.MarkLeave(ctx, "comp-1", "emp-1", "2026-03-02", "late request")
	assert.ErrorIs(t, err, attendance.ErrAlreadyFinalized)
}

func TestRecorder_MarkLeaveRejectsInvalidDate(t *testing.T) {
	recorder := NewRecorderService(memory.NewAttendanceRepository())

	for _, date := range []string{"", "02-03-2026", "2026-3-2", "tomorrow"} {
		_, err := recorder.MarkLeave(context.Background(), "comp-1", "emp-1", date, "annual leave")
		assert.Error(t, err, "date %q", date)
	}
}

func TestRecorder_MarkLeaveBlankNoteStaysUnset(t *testing.T) {
	recorder := NewRecorderService(memory.NewAttendanceRepository())

	rec, err := recorder.MarkLeave(context.Background(), "comp-1", "emp-1", "2026-03-02", "   ")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnLeave, rec.State)
	assert.Nil(t, rec.LeaveNote)
}
