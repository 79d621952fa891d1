package inbound

import (
	"strings"
	"time"
)

// Payload mirrors the union of webhook shapes the supported chat
// gateways send. Field names vary per gateway, so most fields have an
// alias; unknown extra fields are ignored for forward compatibility.
type Payload struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`

	Sender string `json:"sender"`
	From   string `json:"from"`

	Device string `json:"device"`
	To     string `json:"to"`

	Type string `json:"type"`

	Message string `json:"message"`
	Text    string `json:"text"`
	Caption string `json:"caption"`

	URL      string `json:"url"`
	MediaURL string `json:"media_url"`

	Location  *LocationPayload `json:"location"`
	Latitude  *float64         `json:"latitude"`
	Longitude *float64         `json:"longitude"`
}

// LocationPayload tolerates both long and short coordinate field names.
type LocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (p Payload) coordinates() *Coordinates {
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		if lat == nil {
			lat = p.Location.Lat
		}
		if lng == nil {
			lng = p.Location.Lng
		}
		if lat != nil && lng != nil {
			return &Coordinates{Latitude: *lat, Longitude: *lng}
		}
	}
	if p.Latitude != nil && p.Longitude != nil {
		return &Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return nil
}

// Normalize converts a raw provider payload into the canonical Event.
// It is a pure transform: no I/O, no side effects. Classification
// priority is location, then image, then text. Returns
// ErrMalformedPayload when sender or device is absent.
func Normalize(p Payload, receivedAt time.Time) (Event, error) {
	sender := firstNonEmpty(p.Sender, p.From)
	device := firstNonEmpty(p.Device, p.To)
	if sender == "" || device == "" {
		return Event{}, ErrMalformedPayload
	}

	ev := Event{
		ProviderMessageID: firstNonEmpty(p.ID, p.MessageID),
		Sender:            sender,
		DeviceID:          device,
		Text:              strings.TrimSpace(firstNonEmpty(p.Message, p.Text, p.Caption)),
		MediaURL:          firstNonEmpty(p.URL, p.MediaURL),
		Coords:            p.coordinates(),
		ReceivedAt:        receivedAt,
	}

	switch {
	case ev.Coords != nil:
		// Location wins even when a photo rides along; the photo still
		// satisfies the selfie policy via MediaURL.
		ev.Kind = KindLocation
	case ev.MediaURL != "":
		if ev.Text != "" {
			ev.Kind = KindImageText
		} else {
			ev.Kind = KindImage
		}
	default:
		ev.Kind = KindText
	}

	return ev, nil
}
