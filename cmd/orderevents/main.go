package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
	"github.com/pbrandao/go-invoice-flow/internal/config"
	"github.com/pbrandao/go-invoice-flow/internal/events"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	consumer := events.NewConsumer(
		events.NewRepository(clients.DynamoDB, cfg.EventsTable),
		cfg.EventTTL,
		lg,
	)

	// local testing helper: simulate a single queue message
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			data, _ := json.Marshal(events.OrderEvent{
				OrderID:      "local-order-1",
				Email:        "local@example.com",
				RequestID:    "local-request-1",
				ProductCodes: []string{"CODE-1"},
			})
			envelope, _ := json.Marshal(events.Envelope{
				EventType: events.OrderCreated,
				Data:      string(data),
			})
			body = string(envelope)
		}
		event := lambdaevents.SQSEvent{
			Records: []lambdaevents.SQSMessage{
				{MessageId: "local-message-1", Body: body},
			},
		}
		if err := consumer.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(consumer.Handle)
}
