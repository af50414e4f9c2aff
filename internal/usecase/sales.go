package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/security"
	"github.com/wynresh/sunem/internal/repository"
)

var (
	// ErrTotalsMismatch indicates the submitted totals do not add up from the lines.
	ErrTotalsMismatch = errors.New("transaction totals mismatch")
	// ErrAlreadyRefunded indicates the transaction was refunded before.
	ErrAlreadyRefunded = errors.New("transaction already refunded")
)

// SalesService records checkouts, refunds, and the loyalty accrual they trigger.
type SalesService struct {
	sales     port.SalesRepository
	inventory port.InventoryRepository
	customers port.CustomerRepository
	loyalty   port.LoyaltyRepository
	events    port.EventPublisher
	audit     *AuditRecorder
	log       *zap.Logger
}

// NewSalesService constructs a SalesService instance.
func NewSalesService(
	sales port.SalesRepository,
	inventory port.InventoryRepository,
	customers port.CustomerRepository,
	loyalty port.LoyaltyRepository,
	events port.EventPublisher,
	audit *AuditRecorder,
	log *zap.Logger,
) *SalesService {
	return &SalesService{
		sales:     sales,
		inventory: inventory,
		customers: customers,
		loyalty:   loyalty,
		events:    events,
		audit:     audit,
		log:       log,
	}
}

// Record persists a checkout: verifies totals, books stock out, accrues
// loyalty points against the active program, updates the customer's running
// total, and publishes sale.recorded.
func (s *SalesService) Record(ctx context.Context, transaction domain.SalesTransaction) (*domain.SalesTransaction, error) {
	if transaction.StoreID == "" || transaction.CashierID == "" {
		return nil, fmt.Errorf("%w: store_id and cashier_id are required", ErrValidation)
	}
	if len(transaction.Items) == 0 {
		return nil, fmt.Errorf("%w: transaction needs at least one item", ErrValidation)
	}

	now := time.Now().UTC()
	transaction.ID = uuid.NewString()
	if transaction.TransactionDate.IsZero() {
		transaction.TransactionDate = now
	}
	if transaction.ReferenceNumber == "" {
		suffix, err := security.GenerateSecureToken(4)
		if err != nil {
			return nil, fmt.Errorf("generate reference: %w", err)
		}
		transaction.ReferenceNumber = fmt.Sprintf("TX-%d-%s", now.Unix(), suffix)
	}
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	var subTotal, discountTotal float64
	for i := range transaction.Items {
		item := &transaction.Items[i]
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		item.ID = uuid.NewString()
		item.TransactionID = transaction.ID
		item.LineTotal = float64(item.Quantity)*item.UnitPrice - item.Discount
		subTotal += float64(item.Quantity) * item.UnitPrice
		discountTotal += item.Discount
	}

	if !moneyEqual(transaction.SubTotal, subTotal) ||
		!moneyEqual(transaction.GrandTotal, subTotal-discountTotal) {
		return nil, ErrTotalsMismatch
	}
	transaction.DiscountTotal = discountTotal

	// Stock is checked before the write so an oversell fails the whole checkout.
	for _, item := range transaction.Items {
		level, err := s.inventory.GetByProductAndStore(ctx, item.ProductID, transaction.StoreID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s is not stocked at this store", ErrValidation, item.ProductID)
			}
			return nil, err
		}
		if level.CurrentQuantity < item.Quantity {
			return nil, ErrInsufficientStock
		}
	}

	var loyaltyEntry *domain.LoyaltyPoint
	if transaction.CustomerID != nil {
		entry, err := s.pendingLoyaltyEntry(ctx, &transaction)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			loyaltyEntry = entry
			transaction.LoyaltyPointsEarned = entry.Points
		}
	}

	if err := s.sales.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	// The ledger entry references the transaction row, so it is written only
	// once that row exists.
	if loyaltyEntry != nil {
		if err := s.loyalty.AddPoints(ctx, *loyaltyEntry); err != nil {
			return nil, fmt.Errorf("accrue points: %w", err)
		}
	}

	for _, item := range transaction.Items {
		if _, err := s.inventory.AdjustQuantity(ctx, item.ProductID, transaction.StoreID, -item.Quantity); err != nil {
			return nil, fmt.Errorf("book sold stock: %w", err)
		}
		if err := s.inventory.RecordMovement(ctx, domain.StockMovement{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			StoreID:   transaction.StoreID,
			Type:      domain.StockMovementOut,
			Quantity:  item.Quantity,
			Reason:    "sale",
			Reference: transaction.ReferenceNumber,
			UserID:    transaction.CashierID,
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("journal sold stock: %w", err)
		}
	}

	if transaction.CustomerID != nil {
		if err := s.customers.RecordPurchase(ctx, *transaction.CustomerID, transaction.GrandTotal); err != nil {
			s.log.Warn("update customer totals failed",
				zap.String("customer_id", *transaction.CustomerID),
				zap.Error(err),
			)
		}
	}

	if err := s.events.PublishSaleRecorded(ctx, domain.SaleRecordedEvent{
		EventID:       uuid.NewString(),
		TransactionID: transaction.ID,
		StoreID:       transaction.StoreID,
		CashierID:     transaction.CashierID,
		CustomerID:    transaction.CustomerID,
		GrandTotal:    transaction.GrandTotal,
		ItemCount:     len(transaction.Items),
		RecordedAt:    now,
	}); err != nil {
		s.log.Warn("publish sale.recorded failed", zap.Error(err))
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   transaction.CashierID,
		Action:   "sale.record",
		Entity:   "sales_transaction",
		EntityID: transaction.ID,
		NewValue: map[string]any{
			"reference":   transaction.ReferenceNumber,
			"grand_total": transaction.GrandTotal,
			"items":       len(transaction.Items),
		},
	})

	return &transaction, nil
}

// Get retrieves a transaction with its sale lines.
func (s *SalesService) Get(ctx context.Context, id string) (*domain.SalesTransaction, error) {
	return s.sales.GetByID(ctx, id)
}

// List returns a page of transactions for one store.
func (s *SalesService) List(ctx context.Context, storeID string, page port.Page) ([]domain.SalesTransaction, error) {
	return s.sales.List(ctx, storeID, page)
}

// Refund reverses a transaction: marks the original refunded, restocks every
// line, and writes a linked reversal transaction with negated totals.
func (s *SalesService) Refund(ctx context.Context, actorID, transactionID, reason string) (*domain.SalesTransaction, error) {
	original, err := s.sales.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Refunded {
		return nil, ErrAlreadyRefunded
	}

	now := time.Now().UTC()
	reversal := domain.SalesTransaction{
		ID:                    uuid.NewString(),
		StoreID:               original.StoreID,
		CashierID:             actorID,
		CustomerID:            original.CustomerID,
		PaymentMethod:         original.PaymentMethod,
		TransactionDate:       now,
		ReferenceNumber:       fmt.Sprintf("RF-%s", original.ReferenceNumber),
		SubTotal:              -original.SubTotal,
		DiscountTotal:         -original.DiscountTotal,
		GrandTotal:            -original.GrandTotal,
		OriginalTransactionID: &original.ID,
		Notes:                 reason,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	for _, item := range original.Items {
		reversal.Items = append(reversal.Items, domain.SaleItem{
			ID:            uuid.NewString(),
			TransactionID: reversal.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     -item.UnitPrice,
			Discount:      -item.Discount,
			LineTotal:     -item.LineTotal,
		})
	}

	if err := s.sales.Create(ctx, reversal); err != nil {
		return nil, fmt.Errorf("record reversal: %w", err)
	}

	if err := s.sales.MarkRefunded(ctx, original.ID); err != nil {
		return nil, err
	}

	for _, item := range original.Items {
		if _, err := s.inventory.AdjustQuantity(ctx, item.ProductID, original.StoreID, item.Quantity); err != nil {
			return nil, fmt.Errorf("restock refunded item: %w", err)
		}
		if err := s.inventory.RecordMovement(ctx, domain.StockMovement{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			StoreID:   original.StoreID,
			Type:      domain.StockMovementIn,
			Quantity:  item.Quantity,
			Reason:    "refund",
			Reference: reversal.ReferenceNumber,
			UserID:    actorID,
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("journal refunded stock: %w", err)
		}
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "sale.refund",
		Entity:   "sales_transaction",
		EntityID: original.ID,
		OldValue: map[string]any{"refunded": false},
		NewValue: map[string]any{"refunded": true, "reversal_id": reversal.ID, "reason": reason},
	})

	return &reversal, nil
}

// pendingLoyaltyEntry converts the grand total into loyalty points per the
// active program. A missing program is not an error; the sale simply earns
// nothing. The entry is returned unpersisted so it can follow the
// transaction row.
func (s *SalesService) pendingLoyaltyEntry(ctx context.Context, transaction *domain.SalesTransaction) (*domain.LoyaltyPoint, error) {
	if _, err := s.customers.GetByID(ctx, *transaction.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer does not exist", ErrValidation)
		}
		return nil, err
	}

	program, err := s.loyalty.GetActiveProgram(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	points := int(math.Floor(transaction.GrandTotal * program.PointsPerDollar))
	if points <= 0 {
		return nil, nil
	}

	entry := &domain.LoyaltyPoint{
		ID:            uuid.NewString(),
		CustomerID:    *transaction.CustomerID,
		ProgramID:     program.ID,
		TransactionID: &transaction.ID,
		Points:        points,
		CreatedAt:     time.Now().UTC(),
	}
	if program.ExpirationDays > 0 {
		expiry := time.Now().UTC().AddDate(0, 0, program.ExpirationDays)
		entry.ExpiresAt = &expiry
	}

	return entry, nil
}

// moneyEqual compares currency amounts with a half-cent tolerance.
func moneyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
