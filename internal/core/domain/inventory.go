package domain

import "time"

// Inventory tracks stock levels of a product at one store.
type Inventory struct {
	ID              string
	ProductID       string
	StoreID         string
	CurrentQuantity int
	// ReservedQuantity counts units committed to pending orders.
	ReservedQuantity int
	MinStock         int
	MaxStock         int
	AlertThreshold   int
	Location         string
	LastUpdate       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BelowThreshold reports whether available stock has dropped under the
// configured alert threshold.
func (i Inventory) BelowThreshold() bool {
	return i.CurrentQuantity-i.ReservedQuantity <= i.AlertThreshold
}

// StockMovementType enumerates the reasons stock can change.
type StockMovementType string

const (
	StockMovementIn         StockMovementType = "IN"
	StockMovementOut        StockMovementType = "OUT"
	StockMovementAdjustment StockMovementType = "ADJUSTMENT"
	StockMovementTransfer   StockMovementType = "TRANSFER"
)

// StockMovement is the append-only journal entry behind every inventory change.
type StockMovement struct {
	ID        string
	ProductID string
	StoreID   string
	Type      StockMovementType
	Quantity  int
	Reason    string
	// Reference links back to the business document that caused the
	// movement (sale, purchase order, manual adjustment).
	Reference string
	UserID    string
	CreatedAt time.Time
}
