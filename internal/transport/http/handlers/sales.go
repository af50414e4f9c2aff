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

// SalesHandler exposes checkout and refund endpoints.
type SalesHandler struct {
	sales *usecase.SalesService
	cfg   config.PaginationSettings
}

// NewSalesHandler builds a new sales handler instance.
func NewSalesHandler(sales *usecase.SalesService, cfg config.PaginationSettings) *SalesHandler {
	return &SalesHandler{sales: sales, cfg: cfg}
}

// SaleItemRequest is one product line of a checkout being recorded.
type SaleItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

// RecordSaleRequest defines the payload recording a checkout. The cashier is
// taken from the authenticated session, not the payload.
type RecordSaleRequest struct {
	StoreID               string            `json:"store_id" binding:"required"`
	CustomerID            *string           `json:"customer_id"`
	PaymentMethod         string            `json:"payment_method" binding:"required"`
	SubTotal              float64           `json:"sub_total"`
	GrandTotal            float64           `json:"grand_total"`
	CardLast4Digits       string            `json:"card_last_4_digits"`
	LoyaltyPointsRedeemed int               `json:"loyalty_points_redeemed"`
	Notes                 string            `json:"notes"`
	Items                 []SaleItemRequest `json:"items" binding:"required,min=1"`
}

// RefundRequest defines the payload refunding a recorded transaction.
type RefundRequest struct {
	Reason string `json:"reason"`
}

// SaleItemView describes one line of a recorded transaction.
type SaleItemView struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
	LineTotal float64 `json:"line_total"`
}

// SalesTransactionView describes the API representation of a transaction.
type SalesTransactionView struct {
	ID                    string         `json:"id"`
	StoreID               string         `json:"store_id"`
	CashierID             string         `json:"cashier_id"`
	CustomerID            *string        `json:"customer_id,omitempty"`
	PaymentMethod         string         `json:"payment_method"`
	TransactionDate       time.Time      `json:"transaction_date"`
	ReferenceNumber       string         `json:"reference_number"`
	SubTotal              float64        `json:"sub_total"`
	DiscountTotal         float64        `json:"discount_total"`
	GrandTotal            float64        `json:"grand_total"`
	CardLast4Digits       string         `json:"card_last_4_digits,omitempty"`
	LoyaltyPointsEarned   int            `json:"loyalty_points_earned"`
	LoyaltyPointsRedeemed int            `json:"loyalty_points_redeemed"`
	Refunded              bool           `json:"refunded"`
	OriginalTransactionID *string        `json:"original_transaction_id,omitempty"`
	Notes                 string         `json:"notes,omitempty"`
	Items                 []SaleItemView `json:"items,omitempty"`
}

func newSalesTransactionView(tx domain.SalesTransaction) SalesTransactionView {
	items := make([]SaleItemView, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, SaleItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			LineTotal: item.LineTotal,
		})
	}

	return SalesTransactionView{
		ID:                    tx.ID,
		StoreID:               tx.StoreID,
		CashierID:             tx.CashierID,
		CustomerID:            tx.CustomerID,
		PaymentMethod:         string(tx.PaymentMethod),
		TransactionDate:       tx.TransactionDate,
		ReferenceNumber:       tx.ReferenceNumber,
		SubTotal:              tx.SubTotal,
		DiscountTotal:         tx.DiscountTotal,
		GrandTotal:            tx.GrandTotal,
		CardLast4Digits:       tx.CardLast4Digits,
		LoyaltyPointsEarned:   tx.LoyaltyPointsEarned,
		LoyaltyPointsRedeemed: tx.LoyaltyPointsRedeemed,
		Refunded:              tx.Refunded,
		OriginalTransactionID: tx.OriginalTransactionID,
		Notes:                 tx.Notes,
		Items:                 items,
	}
}

// Record books a checkout.
func (h *SalesHandler) Record(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}

	tx, err := h.sales.Record(c.Request.Context(), domain.SalesTransaction{
		StoreID:               req.StoreID,
		CashierID:             middleware.AuthenticatedUserID(c),
		CustomerID:            req.CustomerID,
		PaymentMethod:         domain.PaymentMethod(req.PaymentMethod),
		SubTotal:              req.SubTotal,
		GrandTotal:            req.GrandTotal,
		CardLast4Digits:       req.CardLast4Digits,
		LoyaltyPointsRedeemed: req.LoyaltyPointsRedeemed,
		Notes:                 req.Notes,
		Items:                 items,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTotalsMismatch, Status: http.StatusBadRequest, Message: "transaction totals mismatch"},
			{Err: usecase.ErrInsufficientStock, Status: http.StatusConflict, Message: "insufficient stock"},
		}, http.StatusInternalServerError, "failed to record sale")
		return
	}

	c.JSON(http.StatusCreated, newSalesTransactionView(*tx))
}

// Get returns one transaction with its items.
func (h *SalesHandler) Get(c *gin.Context) {
	tx, err := h.sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, newSalesTransactionView(*tx))
}

// List returns transactions for a store, newest first.
func (h *SalesHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	transactions, err := h.sales.List(c.Request.Context(), c.Query("store_id"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	views := make([]SalesTransactionView, 0, len(transactions))
	for _, tx := range transactions {
		views = append(views, newSalesTransactionView(tx))
	}

	c.JSON(http.StatusOK, ListResponse[SalesTransactionView]{Data: views, Page: page, Limit: limit})
}

// Refund reverses a recorded transaction and restocks its items.
func (h *SalesHandler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	reversal, err := h.sales.Refund(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAlreadyRefunded, Status: http.StatusConflict, Message: "transaction already refunded"},
		}, http.StatusInternalServerError, "failed to refund transaction")
		return
	}

	c.JSON(http.StatusCreated, newSalesTransactionView(*reversal))
}
