package inbound

import (
	"errors"
	"fmt"
)

// Inbound and verification errors
var (
	// ErrMalformedPayload means a mandatory field (sender or device) is
	// missing from the provider payload. This is the only inbound error
	// that surfaces as a transport-level failure.
	ErrMalformedPayload = errors.New("payload is missing mandatory fields")

	// ErrSelfieRequired means the company mandates a selfie and the
	// event carries no image.
	ErrSelfieRequired = errors.New("a selfie photo is required to record attendance")

	// ErrOutOfGeofence means the coordinates fall outside every office
	// radius of the company.
	ErrOutOfGeofence = errors.New("location is outside the allowed office radius")

	// ErrLocationRequired means the company mandates GPS and the event
	// carries no coordinates.
	ErrLocationRequired = errors.New("a location share is required to record attendance")
)

// GeofenceError carries the nearest allowed office and its distance for
// user feedback. It unwraps to ErrOutOfGeofence.
type GeofenceError struct {
	NearestOffice  string
	DistanceMeters float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("location is %.0fm away from %s, outside the allowed radius", e.DistanceMeters, e.NearestOffice)
}

func (e *GeofenceError) Unwrap() error { return ErrOutOfGeofence }
