package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"order-catalog/internal/catalog/application"
	"order-catalog/internal/catalog/domain"
	"order-catalog/pkg/errors"
	"order-catalog/pkg/middleware"
)

// HTTPHandler handles HTTP requests for catalog orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

// CreateOrderRequest is the request body for creating an order. Field names
// follow the public API contract.
type CreateOrderRequest struct {
	Title         string    `json:"Title"`
	Author        string    `json:"Author"`
	ISBN          string    `json:"ISBN"`
	Category      string    `json:"Category"`
	Price         float64   `json:"Price"`
	PublishedDate time.Time `json:"PublishedDate"`
	CoverImageURL *string   `json:"CoverImageUrl"`
	StockQuantity int       `json:"StockQuantity"`
}

// CreateOrder handles POST /orders
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	coverURL := ""
	if req.CoverImageURL != nil {
		coverURL = *req.CoverImageURL
	}

	profile, err := h.useCase.CreateOrder(c.Request.Context(), application.CreateOrderInput{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Category:      domain.Category(req.Category),
		Price:         req.Price,
		PublishedDate: req.PublishedDate,
		CoverImageURL: coverURL,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Location", "/api/v1/orders/"+profile.ID)
	c.JSON(http.StatusCreated, gin.H{
		"data":     profile,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListOrders handles GET /orders
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	profiles, err := h.useCase.ListOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     profiles,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	profile, err := h.useCase.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     profile,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteOrder handles DELETE /orders/:id
func (h *HTTPHandler) DeleteOrder(c *gin.Context) {
	if err := h.useCase.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
