package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

// ErrInvalidOrderState indicates the requested transition does not apply to
// the order's current status.
var ErrInvalidOrderState = errors.New("invalid purchase order state")

// ProcurementService manages suppliers and replenishment orders.
type ProcurementService struct {
	suppliers port.SupplierRepository
	orders    port.PurchaseOrderRepository
	inventory port.InventoryRepository
	audit     *AuditRecorder
}

// NewProcurementService constructs a ProcurementService instance.
func NewProcurementService(
	suppliers port.SupplierRepository,
	orders port.PurchaseOrderRepository,
	inventory port.InventoryRepository,
	audit *AuditRecorder,
) *ProcurementService {
	return &ProcurementService{suppliers: suppliers, orders: orders, inventory: inventory, audit: audit}
}

// CreateSupplier registers a new supplier.
func (s *ProcurementService) CreateSupplier(ctx context.Context, actorID string, supplier domain.Supplier) (*domain.Supplier, error) {
	if strings.TrimSpace(supplier.Code) == "" || strings.TrimSpace(supplier.Name) == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrValidation)
	}

	now := time.Now().UTC()
	supplier.ID = uuid.NewString()
	supplier.Active = true
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "supplier.create",
		Entity:   "supplier",
		EntityID: supplier.ID,
		NewValue: map[string]any{"code": supplier.Code, "name": supplier.Name},
	})

	return &supplier, nil
}

// GetSupplier retrieves a supplier by ID.
func (s *ProcurementService) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// UpdateSupplier replaces mutable supplier attributes.
func (s *ProcurementService) UpdateSupplier(ctx context.Context, actorID string, supplier domain.Supplier) (*domain.Supplier, error) {
	current, err := s.suppliers.GetByID(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}

	if err := s.suppliers.Update(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "supplier.update",
		Entity:   "supplier",
		EntityID: supplier.ID,
		OldValue: map[string]any{"name": current.Name, "active": current.Active},
		NewValue: map[string]any{"name": supplier.Name, "active": supplier.Active},
	})

	return s.suppliers.GetByID(ctx, supplier.ID)
}

// DeleteSupplier removes a supplier.
func (s *ProcurementService) DeleteSupplier(ctx context.Context, actorID, id string) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "supplier.delete",
		Entity:   "supplier",
		EntityID: id,
	})

	return nil
}

// ListSuppliers returns a page of suppliers.
func (s *ProcurementService) ListSuppliers(ctx context.Context, page port.Page) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx, page)
}

// CreateOrder opens a draft purchase order and computes line and order totals.
func (s *ProcurementService) CreateOrder(ctx context.Context, actorID string, order domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	if order.SupplierID == "" || order.StoreID == "" {
		return nil, fmt.Errorf("%w: supplier_id and store_id are required", ErrValidation)
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}

	if _, err := s.suppliers.GetByID(ctx, order.SupplierID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: supplier does not exist", ErrValidation)
		}
		return nil, err
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.Number = fmt.Sprintf("PO-%s", strings.ToUpper(order.ID[:8]))
	order.Status = domain.PurchaseOrderDraft
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	order.CreatedBy = actorID
	order.CreatedAt = now
	order.UpdatedAt = now

	var total float64
	for i := range order.Items {
		item := &order.Items[i]
		if item.QuantityOrdered <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		item.ID = uuid.NewString()
		item.PurchaseOrderID = order.ID
		item.LineTotal = float64(item.QuantityOrdered) * item.UnitPrice
		total += item.LineTotal
	}
	order.TotalAmount = total
	order.GrandTotal = total + order.TaxAmount

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "purchase_order.create",
		Entity:   "purchase_order",
		EntityID: order.ID,
		NewValue: map[string]any{"number": order.Number, "grand_total": order.GrandTotal},
	})

	return &order, nil
}

// GetOrder retrieves a purchase order with its items.
func (s *ProcurementService) GetOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders returns a page of purchase orders for one store.
func (s *ProcurementService) ListOrders(ctx context.Context, storeID string, page port.Page) ([]domain.PurchaseOrder, error) {
	return s.orders.List(ctx, storeID, page)
}

// SubmitOrder moves a draft order to pending.
func (s *ProcurementService) SubmitOrder(ctx context.Context, actorID, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.PurchaseOrderDraft {
		return ErrInvalidOrderState
	}

	if err := s.orders.UpdateStatus(ctx, id, domain.PurchaseOrderPending); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "purchase_order.submit",
		Entity:   "purchase_order",
		EntityID: id,
		OldValue: map[string]any{"status": order.Status},
		NewValue: map[string]any{"status": domain.PurchaseOrderPending},
	})

	return nil
}

// ReceiveOrder books received quantities into inventory. Partial receipts
// leave the order in PARTIAL until every line is fully received.
func (s *ProcurementService) ReceiveOrder(ctx context.Context, actorID, id string, received map[string]int) error {
	if len(received) == 0 {
		return fmt.Errorf("%w: nothing received", ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.PurchaseOrderPending && order.Status != domain.PurchaseOrderPartial {
		return ErrInvalidOrderState
	}

	for productID, quantity := range received {
		if quantity <= 0 {
			return fmt.Errorf("%w: received quantity must be positive", ErrValidation)
		}
		found := false
		for _, item := range order.Items {
			if item.ProductID == productID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: product %s is not on the order", ErrValidation, productID)
		}
	}

	if err := s.orders.RecordReceipt(ctx, id, received); err != nil {
		return err
	}

	for productID, quantity := range received {
		if _, err := s.inventory.AdjustQuantity(ctx, productID, order.StoreID, quantity); err != nil {
			return fmt.Errorf("book received stock: %w", err)
		}
		if err := s.inventory.RecordMovement(ctx, domain.StockMovement{
			ID:        uuid.NewString(),
			ProductID: productID,
			StoreID:   order.StoreID,
			Type:      domain.StockMovementIn,
			Quantity:  quantity,
			Reason:    "purchase order receipt",
			Reference: order.Number,
			UserID:    actorID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("journal received stock: %w", err)
		}
	}

	updated, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	status := domain.PurchaseOrderCompleted
	for _, item := range updated.Items {
		if item.QuantityReceived < item.QuantityOrdered {
			status = domain.PurchaseOrderPartial
			break
		}
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "purchase_order.receive",
		Entity:   "purchase_order",
		EntityID: id,
		NewValue: map[string]any{"status": status, "received": received},
	})

	return nil
}

// CancelOrder cancels an order that has not been received.
func (s *ProcurementService) CancelOrder(ctx context.Context, actorID, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.PurchaseOrderDraft && order.Status != domain.PurchaseOrderPending {
		return ErrInvalidOrderState
	}

	if err := s.orders.UpdateStatus(ctx, id, domain.PurchaseOrderCancelled); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "purchase_order.cancel",
		Entity:   "purchase_order",
		EntityID: id,
		OldValue: map[string]any{"status": order.Status},
		NewValue: map[string]any{"status": domain.PurchaseOrderCancelled},
	})

	return nil
}
