package company

import "errors"

// Company domain errors
var (
	// ErrUnknownDevice means no company owns the receiving device. The
	// event is logged and dropped; retrying cannot fix an unconfigured
	// device.
	ErrUnknownDevice = errors.New("device is not registered to any company")

	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyDisabled = errors.New("company is disabled")
	ErrUnknownCode     = errors.New("short code is not registered")
)
