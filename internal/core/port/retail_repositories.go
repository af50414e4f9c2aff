package port

import (
	"context"

	"github.com/wynresh/sunem/internal/core/domain"
)

// StoreRepository exposes persistence behavior for retail locations.
type StoreRepository interface {
	Create(ctx context.Context, store domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByCode(ctx context.Context, code string) (*domain.Store, error)
	Update(ctx context.Context, store domain.Store) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Store, error)
}

// CategoryRepository exposes persistence behavior for catalog categories.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Category, error)
}

// ProductRepository exposes persistence behavior for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByEAN(ctx context.Context, eanCode string) (*domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string, page Page) ([]domain.Product, error)
}

// InventoryRepository exposes persistence behavior for stock levels.
type InventoryRepository interface {
	Upsert(ctx context.Context, inventory domain.Inventory) error
	GetByProductAndStore(ctx context.Context, productID, storeID string) (*domain.Inventory, error)
	AdjustQuantity(ctx context.Context, productID, storeID string, delta int) (*domain.Inventory, error)
	ListByStore(ctx context.Context, storeID string, page Page) ([]domain.Inventory, error)
	RecordMovement(ctx context.Context, movement domain.StockMovement) error
	ListMovements(ctx context.Context, productID, storeID string, page Page) ([]domain.StockMovement, error)
}

// SupplierRepository exposes persistence behavior for suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, supplier domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	Update(ctx context.Context, supplier domain.Supplier) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Supplier, error)
}

// PurchaseOrderRepository exposes persistence behavior for purchase orders and
// their line items.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order domain.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id string, status domain.PurchaseOrderStatus) error
	RecordReceipt(ctx context.Context, orderID string, received map[string]int) error
	List(ctx context.Context, storeID string, page Page) ([]domain.PurchaseOrder, error)
}

// PromotionRepository exposes persistence behavior for promotions.
type PromotionRepository interface {
	Create(ctx context.Context, promotion domain.Promotion) error
	GetByID(ctx context.Context, id string) (*domain.Promotion, error)
	GetByCode(ctx context.Context, code string) (*domain.Promotion, error)
	Update(ctx context.Context, promotion domain.Promotion) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Promotion, error)
}

// CustomerRepository exposes persistence behavior for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByCode(ctx context.Context, code string) (*domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.Customer, error)
	RecordPurchase(ctx context.Context, id string, amount float64) error
}

// LoyaltyRepository exposes persistence behavior for loyalty programs and
// point ledgers.
type LoyaltyRepository interface {
	CreateProgram(ctx context.Context, program domain.LoyaltyProgram) error
	GetProgram(ctx context.Context, id string) (*domain.LoyaltyProgram, error)
	GetActiveProgram(ctx context.Context) (*domain.LoyaltyProgram, error)
	ListPrograms(ctx context.Context, page Page) ([]domain.LoyaltyProgram, error)
	AddPoints(ctx context.Context, entry domain.LoyaltyPoint) error
	PointBalance(ctx context.Context, customerID string) (int, error)
	ListPoints(ctx context.Context, customerID string, page Page) ([]domain.LoyaltyPoint, error)
}

// SalesRepository exposes persistence behavior for sales transactions.
type SalesRepository interface {
	Create(ctx context.Context, transaction domain.SalesTransaction) error
	GetByID(ctx context.Context, id string) (*domain.SalesTransaction, error)
	MarkRefunded(ctx context.Context, id string) error
	List(ctx context.Context, storeID string, page Page) ([]domain.SalesTransaction, error)
}

// AuditRepository exposes persistence behavior for audit log entries.
type AuditRepository interface {
	Record(ctx context.Context, entry domain.AuditLog) error
	List(ctx context.Context, page Page) ([]domain.AuditLog, error)
	ListByEntity(ctx context.Context, entity, entityID string, page Page) ([]domain.AuditLog, error)
}
