package domain

import "time"

// CustomerSegment enumerates marketing segments.
type CustomerSegment string

const (
	CustomerRegular  CustomerSegment = "REGULAR"
	CustomerPremium  CustomerSegment = "PREMIUM"
	CustomerBusiness CustomerSegment = "BUSINESS"
)

// Customer is a loyalty-enrolled shopper.
type Customer struct {
	ID               string
	Code             string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	JoinDate         time.Time
	Segment          CustomerSegment
	TotalSpent       float64
	LastPurchaseDate *time.Time
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LoyaltyProgram defines how purchases convert into points.
type LoyaltyProgram struct {
	ID                string
	Name              string
	Description       string
	PointsPerDollar   float64
	MinPointsToRedeem int
	// ExpirationDays of zero means points never expire.
	ExpirationDays int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoyaltyPoint is one accrual or redemption entry on a customer's balance.
type LoyaltyPoint struct {
	ID            string
	CustomerID    string
	ProgramID     string
	TransactionID *string
	Points        int
	// Redeemed entries carry negative Points.
	ExpiresAt *time.Time
	CreatedAt time.Time
}
