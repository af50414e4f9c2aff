package domain

import "time"

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentMobile PaymentMethod = "MOBILE"
	PaymentMixed  PaymentMethod = "MIXED"
)

// SalesTransaction records one checkout at a register. Refunds are stored as
// separate transactions linked back through OriginalTransactionID.
type SalesTransaction struct {
	ID                    string
	StoreID               string
	CashierID             string
	CustomerID            *string
	PaymentMethod         PaymentMethod
	TransactionDate       time.Time
	ReferenceNumber       string
	SubTotal              float64
	DiscountTotal         float64
	GrandTotal            float64
	CardLast4Digits       string
	LoyaltyPointsEarned   int
	LoyaltyPointsRedeemed int
	Refunded              bool
	OriginalTransactionID *string
	Notes                 string
	Items                 []SaleItem
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SaleItem is one product line of a sales transaction.
type SaleItem struct {
	ID            string
	TransactionID string
	ProductID     string
	Quantity      int
	UnitPrice     float64
	Discount      float64
	LineTotal     float64
}

// PromotionType enumerates supported discount mechanics.
type PromotionType string

const (
	PromotionPercentage  PromotionType = "PERCENTAGE"
	PromotionFixedAmount PromotionType = "FIXED_AMOUNT"
	PromotionBuyXGetY    PromotionType = "BUY_X_GET_Y"
	PromotionBundle      PromotionType = "BUNDLE"
)

// Promotion is a time-bounded discount rule applied at checkout.
type Promotion struct {
	ID              string
	Code            string
	Name            string
	Description     string
	Type            PromotionType
	DiscountValue   float64
	MinQuantity     *int
	MaxQuantity     *int
	StartDate       time.Time
	EndDate         time.Time
	ApplyToAllStores bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CurrentAt reports whether the promotion is active within its validity window
// at the given instant.
func (p Promotion) CurrentAt(t time.Time) bool {
	return p.Active && !t.Before(p.StartDate) && !t.After(p.EndDate)
}
