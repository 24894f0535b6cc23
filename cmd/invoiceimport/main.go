package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
	"github.com/pbrandao/go-invoice-flow/internal/config"
	"github.com/pbrandao/go-invoice-flow/internal/invoice"
	"github.com/pbrandao/go-invoice-flow/internal/metrics"
	"github.com/pbrandao/go-invoice-flow/internal/notify"
	"github.com/pbrandao/go-invoice-flow/internal/transaction"
	"github.com/pbrandao/go-invoice-flow/internal/transfer"
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
	mgmt, err := awsx.NewManagementClient(ctx, cfg.WSAPIEndpoint)
	if err != nil {
		log.Fatalf("failed to init management client: %v", err)
	}

	svc := transfer.NewService(transfer.Config{
		Transactions: transaction.NewStore(clients.DynamoDB, cfg.InvoicesTable),
		Invoices:     invoice.NewRepository(clients.DynamoDB, cfg.InvoicesTable),
		Storage:      clients.S3,
		Presigner:    clients.S3Presign,
		Notifier:     notify.NewService(mgmt),
		Metrics:      metrics.NewPublisher(clients.CloudWatch, cfg.MetricsNamespace),
		Logger:       lg,
		BucketName:   cfg.BucketName,
		URLExpiry:    cfg.URLExpiry,
		RecordTTL:    cfg.TransactionTTL,
	})

	// local testing helper: simulate a single object-created event
	if os.Getenv("RUN_LOCAL") == "true" {
		key := os.Getenv("LOCAL_S3_KEY")
		if key == "" {
			key = "local-transaction-1"
		}
		event := events.S3Event{
			Records: []events.S3EventRecord{
				{
					S3: events.S3Entity{
						Bucket: events.S3Bucket{Name: cfg.BucketName},
						Object: events.S3Object{Key: key},
					},
				},
			},
		}
		if err := svc.HandleS3Event(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(svc.HandleS3Event)
}
