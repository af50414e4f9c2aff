package domain

import "time"

// Supplier identifies an upstream goods provider.
type Supplier struct {
	ID            string
	Code          string
	Name          string
	ContactName   string
	Email         string
	Phone         string
	Address       string
	PaymentTerms  string
	LeadTimeDays  int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PurchaseOrderStatus enumerates the procurement lifecycle.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderCancelled PurchaseOrderStatus = "CANCELLED"
)

// PurchaseOrder is a replenishment order placed with a supplier for one store.
type PurchaseOrder struct {
	ID                   string
	Number               string
	SupplierID           string
	StoreID              string
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	ActualDeliveryDate   *time.Time
	Status               PurchaseOrderStatus
	TotalAmount          float64
	TaxAmount            float64
	GrandTotal           float64
	Notes                string
	CreatedBy            string
	Items                []PurchaseOrderItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PurchaseOrderItem is a single product line of a purchase order.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	QuantityOrdered  int
	QuantityReceived int
	UnitPrice        float64
	LineTotal        float64
}
