package main

import (
	"context"
	"encoding/json"
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

type cancelRequest struct {
	TransactionID string `json:"transactionId"`
}

func newHandler(svc *transfer.Service, endpoint string, lg *logger.Logger) func(context.Context, events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
		rc := req.RequestContext
		ctx = logger.WithRequestID(ctx, rc.RequestID)

		switch rc.RouteKey {
		case "$connect", "$disconnect":
			// connection registry is owned by the gateway
			return ok(), nil

		case "getImportUrl":
			err := svc.IssueTransfer(ctx, transfer.IssueRequest{
				ConnectionID: rc.ConnectionID,
				Endpoint:     endpoint,
				RequestID:    rc.RequestID,
			})
			if err != nil {
				lg.Error(ctx, "issue transfer failed", "error", err.Error())
				return serverError(), nil
			}
			return ok(), nil

		case "cancelImport":
			var body cancelRequest
			if err := json.Unmarshal([]byte(req.Body), &body); err != nil || body.TransactionID == "" {
				return events.APIGatewayProxyResponse{StatusCode: 400, Body: "Bad Request"}, nil
			}
			if err := svc.CancelImport(ctx, body.TransactionID, rc.ConnectionID); err != nil {
				lg.Error(ctx, "cancel import failed", "error", err.Error())
				return serverError(), nil
			}
			return ok(), nil

		default:
			lg.Warn(ctx, "unknown route", "route_key", rc.RouteKey)
			return events.APIGatewayProxyResponse{StatusCode: 400, Body: "Bad Request"}, nil
		}
	}
}

func ok() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: "OK"}
}

func serverError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Internal Server Error"}
}

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

	handler := newHandler(svc, cfg.WSAPIEndpoint, lg)

	// local testing helper: simulate a single route invocation
	if os.Getenv("RUN_LOCAL") == "true" {
		req := events.APIGatewayWebsocketProxyRequest{
			Body: os.Getenv("LOCAL_WS_BODY"),
		}
		req.RequestContext.RouteKey = os.Getenv("LOCAL_WS_ROUTE")
		if req.RequestContext.RouteKey == "" {
			req.RequestContext.RouteKey = "getImportUrl"
		}
		req.RequestContext.ConnectionID = "local-connection-1"
		req.RequestContext.RequestID = "local-request-1"

		resp, err := handler(ctx, req)
		if err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		log.Printf("local handler response: %d %s", resp.StatusCode, resp.Body)
		return
	}

	lambda.Start(handler)
}
