package notify

import (
	"context"
	"log/slog"

	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
)

// LogDispatcher writes notification intents to the structured log.
// Used when no queue is configured, typically local development.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// DispatchReply implements notification.Dispatcher.
func (d *LogDispatcher) DispatchReply(ctx context.Context, msg notification.ReplyMessage) error {
	slog.Info("Reply intent (no queue configured)",
		"device_id", msg.DeviceID,
		"to", msg.To,
		"text", msg.Text,
	)
	return nil
}

// DispatchAlert implements notification.Dispatcher.
func (d *LogDispatcher) DispatchAlert(ctx context.Context, alert notification.ManagerAlert) error {
	slog.Info("Manager alert intent (no queue configured)",
		"company_id", alert.CompanyID,
		"summary", alert.Summary,
	)
	return nil
}
