package attendance

import "errors"

// Attendance domain errors
var (
	// State machine rejections
	ErrOutsideWindow       = errors.New("check-in is outside the allowed shift window")
	ErrNoCheckInYet        = errors.New("you have not checked in yet today")
	ErrAlreadyFinalized    = errors.New("attendance for today is already finalized")
	ErrAlreadyOnLeave      = errors.New("you are on approved leave today")
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrNoShiftConfigured   = errors.New("no shift is configured for this employee")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	// ErrLockContention is returned by repositories when the per-day
	// row could not be locked within the bounded retry budget.
	ErrLockContention = errors.New("attendance record is locked by a concurrent update")
)
