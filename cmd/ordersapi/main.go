package main

import (
	"context"
	"log"
	"net/http"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
	"github.com/pbrandao/go-invoice-flow/internal/config"
	"github.com/pbrandao/go-invoice-flow/internal/events"
	"github.com/pbrandao/go-invoice-flow/internal/handlers"
	"github.com/pbrandao/go-invoice-flow/internal/orders"
	"github.com/pbrandao/go-invoice-flow/internal/products"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterProductRoutes(r, cfg)
	handlers.RegisterOrderRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()
	appCfg := config.Load()
	lg := logger.New(appCfg.LogLevel)
	defer lg.Sync()

	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		Products:  products.NewRepository(clients.DynamoDB, appCfg.ProductsTable),
		Orders:    orders.NewRepository(clients.DynamoDB, appCfg.OrdersTable),
		Publisher: events.NewPublisher(clients.SQS, appCfg.EventsQueueURL),
		Logger:    lg,
	}

	r := setupRouter(cfg)

	// local development server
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
