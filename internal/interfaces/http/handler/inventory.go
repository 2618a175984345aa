package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/inventory/backend/internal/application/catalog"
	appinv "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves the reservation lifecycle and stock endpoints
type InventoryHandler struct {
	BaseHandler
	engine  *appinv.ReservationService
	queries *appinv.QueryService
	catalog *appcatalog.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(engine *appinv.ReservationService, queries *appinv.QueryService, catalog *appcatalog.Service) *InventoryHandler {
	return &InventoryHandler{
		engine:  engine,
		queries: queries,
		catalog: catalog,
	}
}

// RegisterRoutes registers the inventory endpoints
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/reserve", h.Reserve)
		inv.POST("/confirm", h.Confirm)
		inv.POST("/consume", h.Consume)
		inv.POST("/cancel/:reservation_id", h.Cancel)
		inv.POST("/update-stock", h.UpdateStock)
		inv.GET("/stock/:product_id/:store_id", h.GetStock)
		inv.GET("/all", h.ListAll)
		inv.GET("/products/", h.ListProducts)
	}
}

// Reserve handles POST /inventory/reserve
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	cmd := appinv.ReserveCommand{
		OrderID:   req.OrderID,
		ProductID: uuid.MustParse(req.ProductID),
		StoreID:   uuid.MustParse(req.StoreID),
		Quantity:  req.Quantity,
	}
	if req.TTLMinutes != nil {
		cmd.TTL = time.Duration(*req.TTLMinutes) * time.Minute
	}

	result, err := h.engine.Reserve(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message":     "Stock reserved successfully",
		"reservation": result,
	})
}

// Confirm handles POST /inventory/confirm
func (h *InventoryHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.engine.Confirm(c.Request.Context(), uuid.MustParse(req.ReservationID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message":     "Reservation confirmed successfully",
		"reservation": result,
	})
}

// Consume handles POST /inventory/consume
func (h *InventoryHandler) Consume(c *gin.Context) {
	var req dto.ReservationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.engine.Consume(c.Request.Context(), uuid.MustParse(req.ReservationID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message":     "Reservation consumed successfully",
		"reservation": result,
	})
}

// Cancel handles POST /inventory/cancel/{reservation_id}
func (h *InventoryHandler) Cancel(c *gin.Context) {
	var uri dto.ReservationIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.engine.Cancel(c.Request.Context(), uuid.MustParse(uri.ReservationID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message":     "Reservation cancelled successfully",
		"reservation": result,
	})
}

// UpdateStock handles POST /inventory/update-stock
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	view, err := h.engine.UpdateStock(c.Request.Context(), appinv.UpdateStockCommand{
		ProductID: uuid.MustParse(req.ProductID),
		StoreID:   uuid.MustParse(req.StoreID),
		Delta:     req.QuantityDelta(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message": "Stock updated successfully",
		"stock":   view,
	})
}

// GetStock handles GET /inventory/stock/{product_id}/{store_id}
func (h *InventoryHandler) GetStock(c *gin.Context) {
	var uri dto.StockURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	view, err := h.queries.GetStock(c.Request.Context(),
		uuid.MustParse(uri.ProductID), uuid.MustParse(uri.StoreID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// ListAll handles GET /inventory/all
func (h *InventoryHandler) ListAll(c *gin.Context) {
	views, err := h.queries.ListAll(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.List(c, views, len(views))
}

// ListProducts handles GET /inventory/products/
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.List(c, products, len(products))
}
