package domain

import "time"

// UserRegisteredEvent is emitted once a verified account has been materialized.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	Phone        string
	StoreID      string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserLoggedInEvent is emitted after a successful credential check.
type UserLoggedInEvent struct {
	EventID  string
	UserID   string
	Username string
	StoreID  string
	LoggedAt time.Time
	Metadata map[string]any
}

// SaleRecordedEvent is emitted for every persisted sales transaction.
type SaleRecordedEvent struct {
	EventID       string
	TransactionID string
	StoreID       string
	CashierID     string
	CustomerID    *string
	GrandTotal    float64
	ItemCount     int
	RecordedAt    time.Time
	Metadata      map[string]any
}
