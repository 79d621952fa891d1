package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/hadirly/attendance-backend-go/internal/config"
	"github.com/hadirly/attendance-backend-go/internal/pkg/awsconf"
	"github.com/hadirly/attendance-backend-go/internal/worker"
	"github.com/hadirly/attendance-backend-go/internal/worker/alert"
	"github.com/hadirly/attendance-backend-go/internal/worker/chatgateway"
	"github.com/hadirly/attendance-backend-go/internal/worker/reply"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	workerCfg, err := config.LoadWorker()
	if err != nil {
		log.Fatal("Error loading worker config: ", err)
	}
	if cfg.Queue.ReplyQueueURL == "" {
		log.Fatal("SQS_REPLY_QUEUE_URL is required for the notification worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconf.Load(ctx, cfg.Queue.Region, cfg.Queue.Endpoint)
	if err != nil {
		log.Fatal("Error loading AWS config: ", err)
	}
	client := sqs.NewFromConfig(awsCfg)

	gateway := chatgateway.NewHTTPClient(workerCfg.GatewayBaseURL, workerCfg.GatewayAPIKey)

	replyWorker := worker.NewWorker(client, cfg.Queue.ReplyQueueURL, reply.NewProcessor(gateway))
	alertWorker := worker.NewWorker(client, cfg.Queue.AlertQueueURL, alert.NewProcessor(workerCfg.AlertWebhookURL))

	go alertWorker.Start(ctx)
	replyWorker.Start(ctx)
}
