package employee

import "errors"

// Employee domain errors
var (
	// ErrUnknownEmployee means the sender phone does not belong to any
	// active employee of the resolved company.
	ErrUnknownEmployee = errors.New("sender is not a registered employee")

	ErrEmployeeInactive = errors.New("employee is inactive")
)
