package domain

import "time"

// Store represents a physical retail location.
type Store struct {
	ID           string
	Code         string
	Name         string
	Address      string
	City         string
	PostalCode   string
	Country      string
	Phone        string
	Email        string
	ManagerID    string
	OpeningHours []string
	// Area is the sales floor surface in square metres.
	Area      float64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
