package domain

import "time"

// ProductStatus enumerates catalog availability states.
type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "available"
	ProductStatusUnavailable  ProductStatus = "unavailable"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductUnit enumerates the selling units a product can be priced in.
type ProductUnit string

const (
	ProductUnitPiece ProductUnit = "piece"
	ProductUnitKg    ProductUnit = "kg"
	ProductUnitLiter ProductUnit = "liter"
	ProductUnitBox   ProductUnit = "box"
	ProductUnitPack  ProductUnit = "pack"
)

// Category is a node of the product classification tree.
type Category struct {
	ID          string
	Name        string
	Description string
	ParentID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is a sellable catalog item identified by its EAN code.
type Product struct {
	ID           string
	EANCode      string
	InternalCode string
	Name         string
	Brand        string
	Description  string
	Price        float64
	Unit         ProductUnit
	Weight       *float64
	Volume       *float64
	Allergens    []string
	Status       ProductStatus
	Perishable   bool
	ExpiresAt    *time.Time
	CategoryID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
