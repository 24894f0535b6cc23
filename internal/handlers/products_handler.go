package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pbrandao/go-invoice-flow/internal/products"
)

// RegisterProductRoutes registers the catalog CRUD routes.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/products", func(c *gin.Context) {
		list, err := cfg.Products.GetAll(c.Request.Context())
		if err != nil {
			cfg.Logger.Error(c.Request.Context(), "failed to list products", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_products_failed"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		p, err := cfg.Products.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, products.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		if err != nil {
			cfg.Logger.Error(c.Request.Context(), "failed to get product", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_product_failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/products", func(c *gin.Context) {
		var p products.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}

		created, err := cfg.Products.Create(c.Request.Context(), p)
		if err != nil {
			cfg.Logger.Error(c.Request.Context(), "failed to create product", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_product_failed"})
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	r.PUT("/products/:id", func(c *gin.Context) {
		var p products.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}

		updated, err := cfg.Products.Update(c.Request.Context(), c.Param("id"), p)
		if errors.Is(err, products.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		if err != nil {
			cfg.Logger.Error(c.Request.Context(), "failed to update product", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_product_failed"})
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		deleted, err := cfg.Products.Delete(c.Request.Context(), c.Param("id"))
		if errors.Is(err, products.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		if err != nil {
			cfg.Logger.Error(c.Request.Context(), "failed to delete product", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_product_failed"})
			return
		}
		c.JSON(http.StatusOK, deleted)
	})
}
