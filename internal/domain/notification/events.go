package notification

import (
	"context"
	"time"
)

// ReplyMessage asks the outbound sender to answer an employee on the
// company's messaging line. Delivery is best-effort and never blocks
// the webhook response.
type ReplyMessage struct {
	DeviceID   string    `json:"device_id"`
	To         string    `json:"to"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ManagerAlert summarizes an event for the company's managers, e.g. an
// unrecognized sender attempting a check-in or the absence sweep total.
type ManagerAlert struct {
	CompanyID  string    `json:"company_id"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Dispatcher hands notification intents to the delivery side.
// Implementations must be safe for concurrent use; failures are the
// dispatcher's problem and must never surface to the ingestion call.
type Dispatcher interface {
	DispatchReply(ctx context.Context, msg ReplyMessage) error
	DispatchAlert(ctx context.Context, alert ManagerAlert) error
}
