package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
)

// Event type attribute values carried on every queued message so
// consumers can route without unmarshaling the body.
const (
	EventTypeReply = "REPLY_MESSAGE"
	EventTypeAlert = "MANAGER_ALERT"
)

// SQSClient is the subset of the SQS API the dispatcher needs.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSDispatcher queues notification intents for the delivery workers.
// The ingestion path stays decoupled from provider send latency and
// outages.
type SQSDispatcher struct {
	client        SQSClient
	replyQueueURL string
	alertQueueURL string
}

func NewSQSDispatcher(client SQSClient, replyQueueURL, alertQueueURL string) *SQSDispatcher {
	return &SQSDispatcher{
		client:        client,
		replyQueueURL: replyQueueURL,
		alertQueueURL: alertQueueURL,
	}
}

// DispatchReply implements notification.Dispatcher.
func (d *SQSDispatcher) DispatchReply(ctx context.Context, msg notification.ReplyMessage) error {
	return d.send(ctx, d.replyQueueURL, EventTypeReply, msg)
}

// DispatchAlert implements notification.Dispatcher.
func (d *SQSDispatcher) DispatchAlert(ctx context.Context, alert notification.ManagerAlert) error {
	return d.send(ctx, d.alertQueueURL, EventTypeAlert, alert)
}

func (d *SQSDispatcher) send(ctx context.Context, queueURL, eventType string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	}

	if _, err := d.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to queue %s event: %w", eventType, err)
	}
	return nil
}
