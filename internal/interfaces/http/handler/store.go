package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/inventory/backend/internal/application/catalog"
	appinv "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/interfaces/http/dto"
)

// StoreHandler serves store catalog endpoints
type StoreHandler struct {
	BaseHandler
	catalog *appcatalog.Service
	queries *appinv.QueryService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(catalog *appcatalog.Service, queries *appinv.QueryService) *StoreHandler {
	return &StoreHandler{
		catalog: catalog,
		queries: queries,
	}
}

// RegisterRoutes registers the store endpoints
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	{
		stores.GET("/", h.ListStores)
		stores.GET("/:store_id", h.GetStore)
		stores.GET("/:store_id/inventory", h.GetStoreInventory)
	}
}

// ListStores handles GET /stores/
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.catalog.ListStores(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.List(c, stores, len(stores))
}

// GetStore handles GET /stores/{store_id}
func (h *StoreHandler) GetStore(c *gin.Context) {
	var uri dto.StoreIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	store, err := h.catalog.GetStore(c.Request.Context(), uuid.MustParse(uri.StoreID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// GetStoreInventory handles GET /stores/{store_id}/inventory
func (h *StoreHandler) GetStoreInventory(c *gin.Context) {
	var uri dto.StoreIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	views, err := h.queries.ListByStore(c.Request.Context(), uuid.MustParse(uri.StoreID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.List(c, views, len(views))
}
