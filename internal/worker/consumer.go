package worker

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSClient is the subset of the SQS API the worker needs.
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// Processor handles one queued message. shouldRetry with a delay pushes
// the message back through visibility timeout; an error without retry
// drops it to the queue's dead-letter policy.
type Processor interface {
	Process(ctx context.Context, msg types.Message) (shouldRetry bool, retryDelay int32, err error)
}

// Worker is a generic SQS consumer: one long-poll loop feeding a pool
// of processor goroutines.
type Worker struct {
	client      SQSClient
	queueURL    string
	processor   Processor
	Concurrency int
}

func NewWorker(client SQSClient, queueURL string, processor Processor) *Worker {
	return &Worker{
		client:      client,
		queueURL:    queueURL,
		processor:   processor,
		Concurrency: 10,
	}
}

// Start runs the polling loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("SQS worker started", "queue_url", w.queueURL, "concurrency", w.Concurrency)

	messages := make(chan types.Message, w.Concurrency)

	for i := 0; i < w.Concurrency; i++ {
		go w.processMessages(ctx, messages)
	}

	w.poll(ctx, messages)
}

func (w *Worker) poll(ctx context.Context, messages chan<- types.Message) {
	defer close(messages)

	for {
		select {
		case <-ctx.Done():
			slog.Info("SQS worker poller shutting down")
			return
		default:
			output, err := w.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:              &w.queueURL,
				MaxNumberOfMessages:   int32(w.Concurrency),
				WaitTimeSeconds:       20,
				MessageAttributeNames: []string{"All"},
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("Failed to receive messages", "error", err)
				continue
			}
			for _, msg := range output.Messages {
				messages <- msg
			}
		}
	}
}

func (w *Worker) processMessages(ctx context.Context, messages <-chan types.Message) {
	for msg := range messages {
		w.handle(ctx, msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg types.Message) {
	shouldRetry, retryDelay, err := w.processor.Process(ctx, msg)

	if err != nil && shouldRetry {
		slog.Warn("Processing failed, scheduling retry", "retry_delay", retryDelay, "error", err)
		_, _ = w.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
			QueueUrl:          &w.queueURL,
			ReceiptHandle:     msg.ReceiptHandle,
			VisibilityTimeout: retryDelay,
		})
		return
	}

	if err != nil {
		slog.Error("Unrecoverable error processing message, dropping", "error", err)
	}

	// Delete on success and on unrecoverable failure alike; retries are
	// the only path that leaves the message in the queue.
	_, _ = w.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &w.queueURL,
		ReceiptHandle: msg.ReceiptHandle,
	})
}
