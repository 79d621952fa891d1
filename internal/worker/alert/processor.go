package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
)

const retryDelaySeconds = 60

// Processor forwards queued manager alerts to a configured webhook.
// With no webhook the alert is only logged, which is enough for
// development.
type Processor struct {
	client     *http.Client
	webhookURL string
}

func NewProcessor(webhookURL string) *Processor {
	return &Processor{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

// Process implements worker.Processor.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, fmt.Errorf("message has no body")
	}

	var alert notification.ManagerAlert
	if err := json.Unmarshal([]byte(*msg.Body), &alert); err != nil {
		return false, 0, fmt.Errorf("failed to unmarshal manager alert: %w", err)
	}

	slog.Info("Manager alert", "company_id", alert.CompanyID, "summary", alert.Summary)

	if p.webhookURL == "" {
		return false, 0, nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return false, 0, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return false, 0, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return true, retryDelaySeconds, fmt.Errorf("failed to call alert webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return true, retryDelaySeconds, fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return false, 0, nil
}
