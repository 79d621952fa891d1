package ingest

import (
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
	"github.com/hadirly/attendance-backend-go/internal/pkg/utils"
)

// Verify enforces company policy on a normalized event before the state
// machine sees it. Checks run in order and the first failure wins:
// selfie presence, then geofence. A passing event becomes a
// VerifiedEvent; a failing one never touches attendance state.
func Verify(comp company.Company, ev inbound.Event) (inbound.VerifiedEvent, error) {
	if comp.RequireSelfie && ev.MediaURL == "" {
		// Covers plain text commands and location-only shares alike:
		// location alone is never sufficient when the selfie policy is
		// on.
		return inbound.VerifiedEvent{}, inbound.ErrSelfieRequired
	}

	if comp.RequireLocation && len(comp.Offices) > 0 {
		if ev.Coords == nil {
			return inbound.VerifiedEvent{}, inbound.ErrLocationRequired
		}
		if gfErr := checkGeofence(comp.Offices, *ev.Coords); gfErr != nil {
			return inbound.VerifiedEvent{}, gfErr
		}
	}

	return inbound.VerifiedEvent{
		Event:     ev,
		SelfieURL: ev.MediaURL,
	}, nil
}

// checkGeofence passes when the point is within the radius of at least
// one office. On failure it reports the nearest office and its distance
// for user feedback.
func checkGeofence(offices []company.OfficeLocation, point inbound.Coordinates) error {
	nearest := ""
	nearestDistance := -1.0

	for _, office := range offices {
		distance := utils.CalculateHaversineDistance(
			point.Latitude, point.Longitude,
			office.Latitude, office.Longitude,
		)
		if distance <= office.RadiusMeters {
			return nil
		}
		if nearestDistance < 0 || distance < nearestDistance {
			nearestDistance = distance
			nearest = office.Name
		}
	}

	return &inbound.GeofenceError{
		NearestOffice:  nearest,
		DistanceMeters: nearestDistance,
	}
}
