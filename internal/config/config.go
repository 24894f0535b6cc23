package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the Lambda entry points read from the
// environment. Table names, bucket and endpoints are provisioned by the
// infrastructure stack; the rest have local-friendly defaults.
type Config struct {
	InvoicesTable string
	ProductsTable string
	OrdersTable   string
	EventsTable   string

	BucketName     string
	WSAPIEndpoint  string
	EventsQueueURL string

	URLExpiry      time.Duration
	TransactionTTL time.Duration
	EventTTL       time.Duration

	MetricsNamespace string
	LogLevel         string
}

func Load() *Config {
	if os.Getenv("RUN_LOCAL") == "true" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment as-is")
		}
	}

	return &Config{
		InvoicesTable: getEnv("INVOICES_TABLE", "invoices"),
		ProductsTable: getEnv("PRODUCTS_TABLE", "products"),
		OrdersTable:   getEnv("ORDERS_TABLE", "orders"),
		EventsTable:   getEnv("EVENTS_TABLE", "order-events"),

		BucketName:     getEnv("BUCKET_NAME", ""),
		WSAPIEndpoint:  getEnv("INVOICE_WSAPI_ENDPOINT", ""),
		EventsQueueURL: getEnv("ORDER_EVENTS_QUEUE_URL", ""),

		URLExpiry:      getDurationEnv("UPLOAD_URL_EXPIRY", 5*time.Minute),
		TransactionTTL: getDurationEnv("TRANSACTION_TTL", 2*time.Minute),
		EventTTL:       getDurationEnv("ORDER_EVENT_TTL", 5*time.Minute),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "InvoiceFlow"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}
