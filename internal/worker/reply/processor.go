package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
	"github.com/hadirly/attendance-backend-go/internal/worker/chatgateway"
)

// retryDelaySeconds is the visibility timeout applied when the gateway
// is temporarily unreachable.
const retryDelaySeconds = 30

// Processor delivers queued reply messages through the chat gateway.
type Processor struct {
	sender chatgateway.Sender
}

func NewProcessor(sender chatgateway.Sender) *Processor {
	return &Processor{sender: sender}
}

// Process implements worker.Processor. A malformed body is
// unrecoverable; a gateway failure retries.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, fmt.Errorf("message has no body")
	}

	var reply notification.ReplyMessage
	if err := json.Unmarshal([]byte(*msg.Body), &reply); err != nil {
		return false, 0, fmt.Errorf("failed to unmarshal reply message: %w", err)
	}

	if err := p.sender.SendText(ctx, reply.DeviceID, reply.To, reply.Text); err != nil {
		return true, retryDelaySeconds, fmt.Errorf("failed to send reply: %w", err)
	}

	slog.Info("Delivered reply", "device_id", reply.DeviceID, "to", reply.To)
	return false, 0, nil
}
