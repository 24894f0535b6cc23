package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pbrandao/go-invoice-flow/internal/events"
	"github.com/pbrandao/go-invoice-flow/internal/orders"
	"github.com/pbrandao/go-invoice-flow/internal/validation"
)

// RegisterOrderRoutes registers the order routes. Order create/delete fan an
// event out to the events queue; fan-out failures are logged, not surfaced,
// the order write is the source of truth.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		email := c.Query("email")
		orderID := c.Query("orderId")

		switch {
		case email != "" && orderID != "":
			order, err := cfg.Orders.Get(ctx, email, orderID)
			if errors.Is(err, orders.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
				return
			}
			if err != nil {
				cfg.Logger.Error(ctx, "failed to get order", "error", err.Error())
				c.JSON(http.StatusInternalServerError, gin.H{"error": "get_order_failed"})
				return
			}
			c.JSON(http.StatusOK, order)
		case email != "":
			list, err := cfg.Orders.GetByEmail(ctx, email)
			if err != nil {
				cfg.Logger.Error(ctx, "failed to list orders", "error", err.Error())
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_orders_failed"})
				return
			}
			c.JSON(http.StatusOK, list)
		default:
			list, err := cfg.Orders.GetAll(ctx)
			if err != nil {
				cfg.Logger.Error(ctx, "failed to list orders", "error", err.Error())
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_orders_failed"})
				return
			}
			c.JSON(http.StatusOK, list)
		}
	})

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		found, err := cfg.Products.GetByIDs(ctx, req.ProductIDs)
		if err != nil {
			cfg.Logger.Error(ctx, "failed to load products", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load_products_failed"})
			return
		}
		if len(found) != len(req.ProductIDs) {
			c.JSON(http.StatusNotFound, gin.H{"error": "some_product_not_found"})
			return
		}

		order := orders.Order{
			PK: req.Email,
			Billing: orders.Billing{
				Payment: req.Payment,
			},
			Shipping: orders.Shipping{
				Type:    req.Shipping.Type,
				Carrier: req.Shipping.Carrier,
			},
		}
		for _, p := range found {
			order.Billing.TotalPrice += p.Price
			order.Products = append(order.Products, orders.OrderProduct{
				Code:  p.Code,
				Price: p.Price,
			})
		}

		created, err := cfg.Orders.Create(ctx, order)
		if err != nil {
			cfg.Logger.Error(ctx, "failed to create order", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_order_failed"})
			return
		}

		publishOrderEvent(c, cfg, events.OrderCreated, created)
		c.JSON(http.StatusCreated, created)
	})

	r.DELETE("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		email := c.Query("email")
		orderID := c.Query("orderId")
		if email == "" || orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_email_or_order_id"})
			return
		}

		deleted, err := cfg.Orders.Delete(ctx, email, orderID)
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		if err != nil {
			cfg.Logger.Error(ctx, "failed to delete order", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_order_failed"})
			return
		}

		publishOrderEvent(c, cfg, events.OrderDeleted, deleted)
		c.JSON(http.StatusOK, deleted)
	})
}

func publishOrderEvent(c *gin.Context, cfg HandlerConfig, eventType events.EventType, order *orders.Order) {
	if cfg.Publisher == nil {
		return
	}
	ctx := c.Request.Context()

	codes := make([]string, 0, len(order.Products))
	for _, p := range order.Products {
		codes = append(codes, p.Code)
	}

	err := cfg.Publisher.Publish(ctx, eventType, events.OrderEvent{
		OrderID:      order.SK,
		Email:        order.PK,
		RequestID:    c.GetHeader("X-Request-Id"),
		ProductCodes: codes,
	})
	if err != nil {
		cfg.Logger.Warn(ctx, "failed to publish order event",
			"event_type", string(eventType), "order_id", order.SK, "error", err.Error())
	}
}
