package company

import (
	"time"
)

// Company is a tenant. Each company owns one or more messaging devices,
// a set of shift windows, and zero or more geofenced office locations.
type Company struct {
	ID              string
	Name            string
	Timezone        string
	Status          string
	RequireSelfie   bool
	RequireLocation bool
	CheckInKeyword  string
	CheckOutKeyword string
	// EarlyMarginMinutes is how long before shift start a check-in is
	// still accepted.
	EarlyMarginMinutes int
	Shifts             []Shift
	Offices            []OfficeLocation
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Device is the messaging line that receives inbound chat messages on
// behalf of exactly one company. DeviceID is unique across all tenants.
type Device struct {
	ID        string
	CompanyID string
	DeviceID  string
	// ShortCode backs the public QR lookup endpoint.
	ShortCode string
	Phone     string
	CreatedAt time.Time
}

// Shift is a named work window, times are minutes from local midnight.
type Shift struct {
	ID           string
	CompanyID    string
	Name         string
	StartMinutes int
	EndMinutes   int
	GraceMinutes int
	IsDefault    bool
}

// OfficeLocation is a geofence center plus radius.
type OfficeLocation struct {
	ID           string
	CompanyID    string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Location returns the company's timezone, falling back to UTC when the
// stored name is invalid.
func (c Company) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultShift returns the shift flagged as default, or the first shift
// when none is flagged.
func (c Company) DefaultShift() *Shift {
	for i := range c.Shifts {
		if c.Shifts[i].IsDefault {
			return &c.Shifts[i]
		}
	}
	if len(c.Shifts) > 0 {
		return &c.Shifts[0]
	}
	return nil
}

// ShiftByID returns the shift with the given id, or nil.
func (c Company) ShiftByID(id string) *Shift {
	for i := range c.Shifts {
		if c.Shifts[i].ID == id {
			return &c.Shifts[i]
		}
	}
	return nil
}
