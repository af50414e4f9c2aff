package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/transport/http/middleware"
	"github.com/wynresh/sunem/internal/usecase"
)

// InventoryHandler exposes stock level and movement endpoints.
type InventoryHandler struct {
	inventory *usecase.InventoryService
	cfg       config.PaginationSettings
}

// NewInventoryHandler builds a new inventory handler instance.
func NewInventoryHandler(inventory *usecase.InventoryService, cfg config.PaginationSettings) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, cfg: cfg}
}

// SetLevelRequest defines the payload establishing stock bounds for a product
// at one store.
type SetLevelRequest struct {
	ProductID       string `json:"product_id" binding:"required"`
	StoreID         string `json:"store_id" binding:"required"`
	CurrentQuantity int    `json:"current_quantity"`
	MinStock        int    `json:"min_stock"`
	MaxStock        int    `json:"max_stock"`
	AlertThreshold  int    `json:"alert_threshold"`
	Location        string `json:"location"`
}

// AdjustStockRequest defines the payload for a manual stock movement.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	StoreID   string `json:"store_id" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

// InventoryView describes the API representation of a stock level.
type InventoryView struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	StoreID          string    `json:"store_id"`
	CurrentQuantity  int       `json:"current_quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	MinStock         int       `json:"min_stock"`
	MaxStock         int       `json:"max_stock"`
	AlertThreshold   int       `json:"alert_threshold"`
	Location         string    `json:"location,omitempty"`
	BelowThreshold   bool      `json:"below_threshold"`
	LastUpdate       time.Time `json:"last_update"`
}

// StockMovementView describes one journal entry.
type StockMovementView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason,omitempty"`
	Reference string    `json:"reference,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newInventoryView(inv domain.Inventory) InventoryView {
	return InventoryView{
		ID:               inv.ID,
		ProductID:        inv.ProductID,
		StoreID:          inv.StoreID,
		CurrentQuantity:  inv.CurrentQuantity,
		ReservedQuantity: inv.ReservedQuantity,
		MinStock:         inv.MinStock,
		MaxStock:         inv.MaxStock,
		AlertThreshold:   inv.AlertThreshold,
		Location:         inv.Location,
		BelowThreshold:   inv.BelowThreshold(),
		LastUpdate:       inv.LastUpdate,
	}
}

func newStockMovementView(m domain.StockMovement) StockMovementView {
	return StockMovementView{
		ID:        m.ID,
		ProductID: m.ProductID,
		StoreID:   m.StoreID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// SetLevel creates or replaces the stock record of a product at a store.
func (h *InventoryHandler) SetLevel(c *gin.Context) {
	var req SetLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	inv, err := h.inventory.SetLevel(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.Inventory{
		ProductID:       req.ProductID,
		StoreID:         req.StoreID,
		CurrentQuantity: req.CurrentQuantity,
		MinStock:        req.MinStock,
		MaxStock:        req.MaxStock,
		AlertThreshold:  req.AlertThreshold,
		Location:        req.Location,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to set stock level")
		return
	}

	c.JSON(http.StatusOK, newInventoryView(*inv))
}

// Get returns the stock record of one product at one store.
func (h *InventoryHandler) Get(c *gin.Context) {
	inv, err := h.inventory.Get(c.Request.Context(), c.Query("product_id"), c.Query("store_id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch stock level")
		return
	}

	c.JSON(http.StatusOK, newInventoryView(*inv))
}

// Adjust applies a manual stock movement and returns the resulting level.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	inv, err := h.inventory.Adjust(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.StockMovement{
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Type:      domain.StockMovementType(req.Type),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInsufficientStock, Status: http.StatusConflict, Message: "insufficient stock"},
		}, http.StatusInternalServerError, "failed to adjust stock")
		return
	}

	c.JSON(http.StatusOK, newInventoryView(*inv))
}

// ListByStore returns all stock records of one store.
func (h *InventoryHandler) ListByStore(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	levels, err := h.inventory.ListByStore(c.Request.Context(), c.Param("storeId"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list stock levels")
		return
	}

	views := make([]InventoryView, 0, len(levels))
	for _, inv := range levels {
		views = append(views, newInventoryView(inv))
	}

	c.JSON(http.StatusOK, ListResponse[InventoryView]{Data: views, Page: page, Limit: limit})
}

// ListMovements returns the movement journal for a product at a store.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	movements, err := h.inventory.ListMovements(c.Request.Context(), c.Query("product_id"), c.Query("store_id"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list stock movements")
		return
	}

	views := make([]StockMovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, newStockMovementView(m))
	}

	c.JSON(http.StatusOK, ListResponse[StockMovementView]{Data: views, Page: page, Limit: limit})
}
