package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

// ErrInsufficientStock indicates an outbound adjustment would drive stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryService manages per-store stock levels and the movement journal.
type InventoryService struct {
	inventory port.InventoryRepository
	products  port.ProductRepository
	audit     *AuditRecorder
	log       *zap.Logger
}

// NewInventoryService constructs an InventoryService instance.
func NewInventoryService(
	inventory port.InventoryRepository,
	products port.ProductRepository,
	audit *AuditRecorder,
	log *zap.Logger,
) *InventoryService {
	return &InventoryService{inventory: inventory, products: products, audit: audit, log: log}
}

// SetLevel creates or replaces the stock configuration for a product at a store.
func (s *InventoryService) SetLevel(ctx context.Context, actorID string, inventory domain.Inventory) (*domain.Inventory, error) {
	if inventory.ProductID == "" || inventory.StoreID == "" {
		return nil, fmt.Errorf("%w: product_id and store_id are required", ErrValidation)
	}
	if inventory.CurrentQuantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	if _, err := s.products.GetByID(ctx, inventory.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product does not exist", ErrValidation)
		}
		return nil, err
	}

	now := time.Now().UTC()
	if inventory.ID == "" {
		inventory.ID = uuid.NewString()
	}
	inventory.LastUpdate = now
	inventory.CreatedAt = now
	inventory.UpdatedAt = now

	if err := s.inventory.Upsert(ctx, inventory); err != nil {
		return nil, fmt.Errorf("upsert inventory: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "inventory.set_level",
		Entity:   "inventory",
		EntityID: inventory.ID,
		NewValue: map[string]any{
			"product_id": inventory.ProductID,
			"store_id":   inventory.StoreID,
			"quantity":   inventory.CurrentQuantity,
		},
	})

	return s.inventory.GetByProductAndStore(ctx, inventory.ProductID, inventory.StoreID)
}

// Get retrieves the stock record for a product at a store.
func (s *InventoryService) Get(ctx context.Context, productID, storeID string) (*domain.Inventory, error) {
	return s.inventory.GetByProductAndStore(ctx, productID, storeID)
}

// Adjust applies a signed quantity delta and journals the movement. Outbound
// adjustments that would drive available stock negative are rejected.
func (s *InventoryService) Adjust(ctx context.Context, actorID string, movement domain.StockMovement) (*domain.Inventory, error) {
	if movement.ProductID == "" || movement.StoreID == "" {
		return nil, fmt.Errorf("%w: product_id and store_id are required", ErrValidation)
	}
	if movement.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity cannot be zero", ErrValidation)
	}

	delta := movement.Quantity
	if movement.Type == domain.StockMovementOut && delta > 0 {
		delta = -delta
	}

	current, err := s.inventory.GetByProductAndStore(ctx, movement.ProductID, movement.StoreID)
	if err != nil {
		return nil, err
	}
	if current.CurrentQuantity+delta < 0 {
		return nil, ErrInsufficientStock
	}

	updated, err := s.inventory.AdjustQuantity(ctx, movement.ProductID, movement.StoreID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust inventory: %w", err)
	}

	movement.ID = uuid.NewString()
	movement.UserID = actorID
	movement.CreatedAt = time.Now().UTC()
	if err := s.inventory.RecordMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}

	if updated.BelowThreshold() {
		s.log.Warn("stock below alert threshold",
			zap.String("product_id", updated.ProductID),
			zap.String("store_id", updated.StoreID),
			zap.Int("current", updated.CurrentQuantity),
			zap.Int("threshold", updated.AlertThreshold),
		)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "inventory.adjust",
		Entity:   "inventory",
		EntityID: updated.ID,
		OldValue: map[string]any{"quantity": current.CurrentQuantity},
		NewValue: map[string]any{"quantity": updated.CurrentQuantity, "movement_type": movement.Type},
	})

	return updated, nil
}

// ListByStore returns a page of stock records for one store.
func (s *InventoryService) ListByStore(ctx context.Context, storeID string, page port.Page) ([]domain.Inventory, error) {
	return s.inventory.ListByStore(ctx, storeID, page)
}

// ListMovements returns the movement journal for a product at a store.
func (s *InventoryService) ListMovements(ctx context.Context, productID, storeID string, page port.Page) ([]domain.StockMovement, error) {
	return s.inventory.ListMovements(ctx, productID, storeID, page)
}
