package handlers

import (
	"github.com/pbrandao/go-invoice-flow/internal/events"
	"github.com/pbrandao/go-invoice-flow/internal/orders"
	"github.com/pbrandao/go-invoice-flow/internal/products"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

// HandlerConfig groups dependencies for the REST routes.
type HandlerConfig struct {
	Products  *products.Repository
	Orders    *orders.Repository
	Publisher *events.Publisher
	Logger    *logger.Logger
}
