package ingest

import (
	"testing"

	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monas, central Jakarta.
const (
	officeLat = -6.175392
	officeLng = 106.827153
)

func policyCompany(selfie, location bool) company.Company {
	comp := company.Company{
		ID:              "comp-1",
		Timezone:        "Asia/Jakarta",
		Status:          company.StatusActive,
		RequireSelfie:   selfie,
		RequireLocation: location,
	}
	if location {
		comp.Offices = []company.OfficeLocation{
			{
				ID:           "office-1",
				CompanyID:    "comp-1",
				Name:         "HQ",
				Latitude:     officeLat,
				Longitude:    officeLng,
				RadiusMeters: 100,
			},
		}
	}
	return comp
}

func TestVerify_NoPolicyPassesPlainText(t *testing.T) {
	ev := inbound.Event{Kind: inbound.KindText, Text: "hadir"}

	verified, err := Verify(policyCompany(false, false), ev)
	require.NoError(t, err)
	assert.Empty(t, verified.SelfieURL)
}

func TestVerify_SelfieRequired(t *testing.T) {
	comp := policyCompany(true, false)

	_, err := Verify(comp, inbound.Event{Kind: inbound.KindText, Text: "hadir"})
	assert.ErrorIs(t, err, inbound.ErrSelfieRequired)

	verified, err := Verify(comp, inbound.Event{
		Kind:     inbound.KindImageText,
		Text:     "hadir",
		MediaURL: "https://media.example.com/abc.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/abc.jpg", verified.SelfieURL)
}

func TestVerify_LocationShareSatisfiesSelfieOnlyWithPhoto(t *testing.T) {
	comp := policyCompany(true, false)

	// Bare location share carries no photo.
	_, err := Verify(comp, inbound.Event{
		Kind:   inbound.KindLocation,
		Coords: &inbound.Coordinates{Latitude: officeLat, Longitude: officeLng},
	})
	assert.ErrorIs(t, err, inbound.ErrSelfieRequired)

	// Photo riding along with the location share counts.
	verified, err := Verify(comp, inbound.Event{
		Kind:     inbound.KindLocation,
		MediaURL: "https://media.example.com/abc.jpg",
		Coords:   &inbound.Coordinates{Latitude: officeLat, Longitude: officeLng},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/abc.jpg", verified.SelfieURL)
}

func TestVerify_LocationRequired(t *testing.T) {
	comp := policyCompany(false, true)

	_, err := Verify(comp, inbound.Event{Kind: inbound.KindText, Text: "hadir"})
	assert.ErrorIs(t, err, inbound.ErrLocationRequired)
}

func TestVerify_WithinGeofencePasses(t *testing.T) {
	comp := policyCompany(false, true)

	// ~50m north of the office.
	_, err := Verify(comp, inbound.Event{
		Kind:   inbound.KindLocation,
		Coords: &inbound.Coordinates{Latitude: officeLat + 0.00045, Longitude: officeLng},
	})
	assert.NoError(t, err)
}

func TestVerify_OutsideGeofence(t *testing.T) {
	comp := policyCompany(false, true)

	// ~550m north of the office, well past the 100m radius.
	_, err := Verify(comp, inbound.Event{
		Kind:   inbound.KindLocation,
		Coords: &inbound.Coordinates{Latitude: officeLat + 0.005, Longitude: officeLng},
	})
	require.ErrorIs(t, err, inbound.ErrOutOfGeofence)

	var gfErr *inbound.GeofenceError
	require.ErrorAs(t, err, &gfErr)
	assert.Equal(t, "HQ", gfErr.NearestOffice)
	assert.InDelta(t, 550, gfErr.DistanceMeters, 30)
}

func TestVerify_LocationPolicyWithoutOfficesPasses(t *testing.T) {
	comp := policyCompany(false, true)
	comp.Offices = nil

	_, err := Verify(comp, inbound.Event{Kind: inbound.KindText, Text: "hadir"})
	assert.NoError(t, err)
}
