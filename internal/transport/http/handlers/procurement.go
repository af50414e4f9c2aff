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

// ProcurementHandler exposes supplier and purchase order endpoints.
type ProcurementHandler struct {
	procurement *usecase.ProcurementService
	cfg         config.PaginationSettings
}

// NewProcurementHandler builds a new procurement handler instance.
func NewProcurementHandler(procurement *usecase.ProcurementService, cfg config.PaginationSettings) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement, cfg: cfg}
}

// SupplierRequest defines the create/update payload for a supplier.
type SupplierRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	PaymentTerms string `json:"payment_terms"`
	LeadTimeDays int    `json:"lead_time_days"`
	Active       *bool  `json:"active"`
}

// SupplierView describes the API representation of a supplier.
type SupplierView struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PaymentTerms string    `json:"payment_terms,omitempty"`
	LeadTimeDays int       `json:"lead_time_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newSupplierView(supplier domain.Supplier) SupplierView {
	return SupplierView{
		ID:           supplier.ID,
		Code:         supplier.Code,
		Name:         supplier.Name,
		ContactName:  supplier.ContactName,
		Email:        supplier.Email,
		Phone:        supplier.Phone,
		Address:      supplier.Address,
		PaymentTerms: supplier.PaymentTerms,
		LeadTimeDays: supplier.LeadTimeDays,
		Active:       supplier.Active,
		CreatedAt:    supplier.CreatedAt,
		UpdatedAt:    supplier.UpdatedAt,
	}
}

func (r SupplierRequest) toDomain() domain.Supplier {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return domain.Supplier{
		Code:         r.Code,
		Name:         r.Name,
		ContactName:  r.ContactName,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		PaymentTerms: r.PaymentTerms,
		LeadTimeDays: r.LeadTimeDays,
		Active:       active,
	}
}

// OrderItemRequest is one product line of an order being created.
type OrderItemRequest struct {
	ProductID       string  `json:"product_id" binding:"required"`
	QuantityOrdered int     `json:"quantity_ordered" binding:"required,min=1"`
	UnitPrice       float64 `json:"unit_price"`
}

// CreateOrderRequest defines the payload creating a draft purchase order.
type CreateOrderRequest struct {
	SupplierID           string             `json:"supplier_id" binding:"required"`
	StoreID              string             `json:"store_id" binding:"required"`
	ExpectedDeliveryDate time.Time          `json:"expected_delivery_date"`
	TaxAmount            float64            `json:"tax_amount"`
	Notes                string             `json:"notes"`
	Items                []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// ReceiveOrderRequest maps product IDs to quantities received in a delivery.
type ReceiveOrderRequest struct {
	Received map[string]int `json:"received" binding:"required"`
}

// OrderItemView describes one line of a purchase order.
type OrderItemView struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"product_id"`
	QuantityOrdered  int     `json:"quantity_ordered"`
	QuantityReceived int     `json:"quantity_received"`
	UnitPrice        float64 `json:"unit_price"`
	LineTotal        float64 `json:"line_total"`
}

// PurchaseOrderView describes the API representation of a purchase order.
type PurchaseOrderView struct {
	ID                   string          `json:"id"`
	Number               string          `json:"number"`
	SupplierID           string          `json:"supplier_id"`
	StoreID              string          `json:"store_id"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	Status               string          `json:"status"`
	TotalAmount          float64         `json:"total_amount"`
	TaxAmount            float64         `json:"tax_amount"`
	GrandTotal           float64         `json:"grand_total"`
	Notes                string          `json:"notes,omitempty"`
	CreatedBy            string          `json:"created_by"`
	Items                []OrderItemView `json:"items,omitempty"`
}

func newPurchaseOrderView(order domain.PurchaseOrder) PurchaseOrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ID:               item.ID,
			ProductID:        item.ProductID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        item.UnitPrice,
			LineTotal:        item.LineTotal,
		})
	}

	return PurchaseOrderView{
		ID:                   order.ID,
		Number:               order.Number,
		SupplierID:           order.SupplierID,
		StoreID:              order.StoreID,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ActualDeliveryDate:   order.ActualDeliveryDate,
		Status:               string(order.Status),
		TotalAmount:          order.TotalAmount,
		TaxAmount:            order.TaxAmount,
		GrandTotal:           order.GrandTotal,
		Notes:                order.Notes,
		CreatedBy:            order.CreatedBy,
		Items:                items,
	}
}

// CreateSupplier registers a new supplier.
func (h *ProcurementHandler) CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	supplier, err := h.procurement.CreateSupplier(c.Request.Context(), middleware.AuthenticatedUserID(c), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, newSupplierView(*supplier))
}

// GetSupplier returns one supplier by ID.
func (h *ProcurementHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.procurement.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch supplier")
		return
	}

	c.JSON(http.StatusOK, newSupplierView(*supplier))
}

// UpdateSupplier replaces the mutable attributes of a supplier.
func (h *ProcurementHandler) UpdateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	supplier := req.toDomain()
	supplier.ID = c.Param("id")

	updated, err := h.procurement.UpdateSupplier(c.Request.Context(), middleware.AuthenticatedUserID(c), supplier)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	c.JSON(http.StatusOK, newSupplierView(*updated))
}

// DeleteSupplier removes a supplier.
func (h *ProcurementHandler) DeleteSupplier(c *gin.Context) {
	if err := h.procurement.DeleteSupplier(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete supplier")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "supplier deleted"})
}

// ListSuppliers returns suppliers ordered by code.
func (h *ProcurementHandler) ListSuppliers(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	suppliers, err := h.procurement.ListSuppliers(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list suppliers")
		return
	}

	views := make([]SupplierView, 0, len(suppliers))
	for _, supplier := range suppliers {
		views = append(views, newSupplierView(supplier))
	}

	c.JSON(http.StatusOK, ListResponse[SupplierView]{Data: views, Page: page, Limit: limit})
}

// CreateOrder creates a draft purchase order with computed totals.
func (h *ProcurementHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	items := make([]domain.PurchaseOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.PurchaseOrderItem{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			UnitPrice:       item.UnitPrice,
		})
	}

	order, err := h.procurement.CreateOrder(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.PurchaseOrder{
		SupplierID:           req.SupplierID,
		StoreID:              req.StoreID,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		TaxAmount:            req.TaxAmount,
		Notes:                req.Notes,
		Items:                items,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create purchase order")
		return
	}

	c.JSON(http.StatusCreated, newPurchaseOrderView(*order))
}

// GetOrder returns one purchase order with its items.
func (h *ProcurementHandler) GetOrder(c *gin.Context) {
	order, err := h.procurement.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch purchase order")
		return
	}

	c.JSON(http.StatusOK, newPurchaseOrderView(*order))
}

// ListOrders returns purchase orders for a store.
func (h *ProcurementHandler) ListOrders(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	orders, err := h.procurement.ListOrders(c.Request.Context(), c.Query("store_id"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list purchase orders")
		return
	}

	views := make([]PurchaseOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newPurchaseOrderView(order))
	}

	c.JSON(http.StatusOK, ListResponse[PurchaseOrderView]{Data: views, Page: page, Limit: limit})
}

// SubmitOrder moves a draft order to the pending state.
func (h *ProcurementHandler) SubmitOrder(c *gin.Context) {
	if err := h.procurement.SubmitOrder(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrderState, Status: http.StatusConflict, Message: "order cannot be submitted in its current state"},
		}, http.StatusInternalServerError, "failed to submit purchase order")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "purchase order submitted"})
}

// ReceiveOrder books a delivery against a pending order and restocks.
func (h *ProcurementHandler) ReceiveOrder(c *gin.Context) {
	var req ReceiveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	if err := h.procurement.ReceiveOrder(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id"), req.Received); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrderState, Status: http.StatusConflict, Message: "order cannot receive deliveries in its current state"},
		}, http.StatusInternalServerError, "failed to receive purchase order")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "delivery recorded"})
}

// CancelOrder cancels a draft or pending order.
func (h *ProcurementHandler) CancelOrder(c *gin.Context) {
	if err := h.procurement.CancelOrder(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrderState, Status: http.StatusConflict, Message: "order cannot be cancelled in its current state"},
		}, http.StatusInternalServerError, "failed to cancel purchase order")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "purchase order cancelled"})
}
