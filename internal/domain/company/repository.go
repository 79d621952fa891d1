package company

import (
	"context"
)

// CompanyRepository resolves the tenant side of inbound events. The
// registry is read-mostly; implementations may serve results with a
// bounded staleness window of a few seconds.
type CompanyRepository interface {
	// GetByDeviceID resolves the company that owns a messaging device,
	// including shifts and office locations. Returns ErrUnknownDevice
	// when no company owns the device.
	GetByDeviceID(ctx context.Context, deviceID string) (Company, error)

	// GetDeviceByShortCode resolves a QR short code to its device.
	// Returns ErrUnknownCode when unregistered.
	GetDeviceByShortCode(ctx context.Context, code string) (Device, error)

	// GetByID loads a company with shifts and offices. Used by the
	// end-of-day sweep, which walks tenants rather than devices.
	GetByID(ctx context.Context, id string) (Company, error)
}
