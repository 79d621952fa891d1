package inbound

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a normalized inbound event by its content.
type Kind string

const (
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindLocation  Kind = "location"
	KindImageText Kind = "image+text"
)

// HasImage reports whether the event carries a media reference.
func (k Kind) HasImage() bool {
	return k == KindImage || k == KindImageText
}

// Coordinates is a GPS point attached to an event.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Event is the canonical form of one provider webhook delivery. It is
// ephemeral: it lives for the duration of one ingestion call plus the
// dedup-window retention of its fingerprint.
type Event struct {
	// ProviderMessageID is the provider's message id when the provider
	// supplies one; it makes the fingerprint stable across retries.
	ProviderMessageID string
	Kind              Kind
	Sender            string
	DeviceID          string
	// Text is the message body or image caption, trimmed. Never empty
	// for nil: whitespace-only input normalizes to "".
	Text       string
	MediaURL   string
	Coords     *Coordinates
	ReceivedAt time.Time
}

// Fingerprint derives the deduplication key for the event. When the
// provider supplies a stable message id that id wins; otherwise the key
// is hashed from device, sender, the receipt time truncated to the
// minute, and the normalized content, so providers without stable ids
// still dedup rapid retries.
func (e Event) Fingerprint() string {
	if e.ProviderMessageID != "" {
		return e.DeviceID + ":" + e.ProviderMessageID
	}

	var coords string
	if e.Coords != nil {
		coords = fmt.Sprintf("%.6f,%.6f", e.Coords.Latitude, e.Coords.Longitude)
	}
	raw := strings.Join([]string{
		e.DeviceID,
		e.Sender,
		e.ReceivedAt.UTC().Truncate(time.Minute).Format(time.RFC3339),
		string(e.Kind),
		strings.ToLower(e.Text),
		e.MediaURL,
		coords,
	}, "|")

	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerifiedEvent is an Event that passed the selfie and geofence policy
// and is eligible to drive a state transition.
type VerifiedEvent struct {
	Event
	// SelfieURL is the media reference that satisfied the selfie
	// policy, empty when the policy is off.
	SelfieURL string
}
