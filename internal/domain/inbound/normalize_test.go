package inbound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receivedAt = time.Date(2026, 3, 2, 2, 10, 30, 0, time.UTC)

func TestNormalize_FieldAliases(t *testing.T) {
	long := Payload{
		MessageID: "msg-1",
		From:      "6281234567890",
		To:        "device-1",
		Text:      "hadir",
	}
	short := Payload{
		ID:      "msg-1",
		Sender:  "6281234567890",
		Device:  "device-1",
		Message: "hadir",
	}

	evLong, err := Normalize(long, receivedAt)
	require.NoError(t, err)
	evShort, err := Normalize(short, receivedAt)
	require.NoError(t, err)

	assert.Equal(t, evLong, evShort)
	assert.Equal(t, "msg-1", evLong.ProviderMessageID)
	assert.Equal(t, KindText, evLong.Kind)
}

func TestNormalize_MissingMandatoryFields(t *testing.T) {
	_, err := Normalize(Payload{Device: "device-1", Message: "hadir"}, receivedAt)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Normalize(Payload{Sender: "6281234567890", Message: "hadir"}, receivedAt)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalize_TrimsText(t *testing.T) {
	ev, err := Normalize(Payload{
		Sender:  "6281234567890",
		Device:  "device-1",
		Message: "  hadir \n",
	}, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, "hadir", ev.Text)
}

func TestNormalize_Classification(t *testing.T) {
	lat, lng := -6.175392, 106.827153

	tests := []struct {
		name     string
		payload  Payload
		expected Kind
	}{
		{
			"plain text",
			Payload{Sender: "s", Device: "d", Message: "hadir"},
			KindText,
		},
		{
			"image only",
			Payload{Sender: "s", Device: "d", URL: "https://m/x.jpg"},
			KindImage,
		},
		{
			"image with caption",
			Payload{Sender: "s", Device: "d", URL: "https://m/x.jpg", Caption: "hadir"},
			KindImageText,
		},
		{
			"nested location",
			Payload{Sender: "s", Device: "d", Location: &LocationPayload{Latitude: &lat, Longitude: &lng}},
			KindLocation,
		},
		{
			"flat location",
			Payload{Sender: "s", Device: "d", Latitude: &lat, Longitude: &lng},
			KindLocation,
		},
		{
			"short coordinate names",
			Payload{Sender: "s", Device: "d", Location: &LocationPayload{Lat: &lat, Lng: &lng}},
			KindLocation,
		},
		{
			"location wins over image",
			Payload{Sender: "s", Device: "d", URL: "https://m/x.jpg", Latitude: &lat, Longitude: &lng},
			KindLocation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Normalize(tc.payload, receivedAt)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ev.Kind)
			if tc.expected == KindLocation {
				require.NotNil(t, ev.Coords)
				assert.Equal(t, lat, ev.Coords.Latitude)
				assert.Equal(t, lng, ev.Coords.Longitude)
			}
		})
	}
}

func TestFingerprint_ProviderIDWins(t *testing.T) {
	ev, err := Normalize(Payload{ID: "msg-1", Sender: "s", Device: "device-1", Message: "hadir"}, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, "device-1:msg-1", ev.Fingerprint())

	// Same id, different receipt time: the retry still collapses.
	later, err := Normalize(Payload{ID: "msg-1", Sender: "s", Device: "device-1", Message: "hadir"}, receivedAt.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, ev.Fingerprint(), later.Fingerprint())
}

func TestFingerprint_DerivedWithoutProviderID(t *testing.T) {
	base := Payload{Sender: "s", Device: "device-1", Message: "hadir"}

	ev, err := Normalize(base, receivedAt)
	require.NoError(t, err)

	// Retries inside the same minute collapse.
	sameMinute, err := Normalize(base, receivedAt.Add(20*time.Second))
	require.NoError(t, err)
	assert.Equal(t, ev.Fingerprint(), sameMinute.Fingerprint())

	// A minute later is a distinct event.
	nextMinute, err := Normalize(base, receivedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.NotEqual(t, ev.Fingerprint(), nextMinute.Fingerprint())

	// Different content is a distinct event.
	other, err := Normalize(Payload{Sender: "s", Device: "device-1", Message: "pulang"}, receivedAt)
	require.NoError(t, err)
	assert.NotEqual(t, ev.Fingerprint(), other.Fingerprint())
}
