package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users          *UserRepository
	Roles          *RoleRepository
	Stores         *StoreRepository
	Categories     *CategoryRepository
	Products       *ProductRepository
	Inventory      *InventoryRepository
	Suppliers      *SupplierRepository
	PurchaseOrders *PurchaseOrderRepository
	Promotions     *PromotionRepository
	Customers      *CustomerRepository
	Loyalty        *LoyaltyRepository
	Sales          *SalesRepository
	Audit          *AuditRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(pool),
		Roles:          NewRoleRepository(pool),
		Stores:         NewStoreRepository(pool),
		Categories:     NewCategoryRepository(pool),
		Products:       NewProductRepository(pool),
		Inventory:      NewInventoryRepository(pool),
		Suppliers:      NewSupplierRepository(pool),
		PurchaseOrders: NewPurchaseOrderRepository(pool),
		Promotions:     NewPromotionRepository(pool),
		Customers:      NewCustomerRepository(pool),
		Loyalty:        NewLoyaltyRepository(pool),
		Sales:          NewSalesRepository(pool),
		Audit:          NewAuditRepository(pool),
	}
}
