package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

type salesRepoStub struct {
	created   []domain.SalesTransaction
	refunded  []string
	createErr error
}

func (s *salesRepoStub) Create(_ context.Context, tx domain.SalesTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, tx)
	return nil
}

func (s *salesRepoStub) GetByID(_ context.Context, id string) (*domain.SalesTransaction, error) {
	for i := range s.created {
		if s.created[i].ID == id {
			copied := s.created[i]
			for _, refundedID := range s.refunded {
				if refundedID == id {
					copied.Refunded = true
				}
			}
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *salesRepoStub) MarkRefunded(_ context.Context, id string) error {
	s.refunded = append(s.refunded, id)
	return nil
}

func (s *salesRepoStub) List(context.Context, string, port.Page) ([]domain.SalesTransaction, error) {
	return s.created, nil
}

type inventoryRepoStub struct {
	levels    map[string]int
	movements []domain.StockMovement
}

func (s *inventoryRepoStub) Upsert(context.Context, domain.Inventory) error { return nil }

func (s *inventoryRepoStub) GetByProductAndStore(_ context.Context, productID, storeID string) (*domain.Inventory, error) {
	qty, ok := s.levels[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.Inventory{ProductID: productID, StoreID: storeID, CurrentQuantity: qty}, nil
}

func (s *inventoryRepoStub) AdjustQuantity(_ context.Context, productID, storeID string, delta int) (*domain.Inventory, error) {
	qty, ok := s.levels[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	qty += delta
	s.levels[productID] = qty
	return &domain.Inventory{ProductID: productID, StoreID: storeID, CurrentQuantity: qty}, nil
}

func (s *inventoryRepoStub) ListByStore(context.Context, string, port.Page) ([]domain.Inventory, error) {
	return nil, nil
}

func (s *inventoryRepoStub) RecordMovement(_ context.Context, movement domain.StockMovement) error {
	s.movements = append(s.movements, movement)
	return nil
}

func (s *inventoryRepoStub) ListMovements(context.Context, string, string, port.Page) ([]domain.StockMovement, error) {
	return s.movements, nil
}

type customerRepoStub struct {
	known     map[string]bool
	purchases []float64
}

func (s *customerRepoStub) Create(context.Context, domain.Customer) error { return nil }

func (s *customerRepoStub) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if !s.known[id] {
		return nil, repository.ErrNotFound
	}
	return &domain.Customer{ID: id}, nil
}

func (s *customerRepoStub) GetByCode(context.Context, string) (*domain.Customer, error) {
	return nil, repository.ErrNotFound
}

func (s *customerRepoStub) Update(context.Context, domain.Customer) error { return nil }
func (s *customerRepoStub) Delete(context.Context, string) error          { return nil }

func (s *customerRepoStub) List(context.Context, port.Page) ([]domain.Customer, error) {
	return nil, nil
}

func (s *customerRepoStub) RecordPurchase(_ context.Context, _ string, amount float64) error {
	s.purchases = append(s.purchases, amount)
	return nil
}

type loyaltyRepoStub struct {
	program *domain.LoyaltyProgram
	points  []domain.LoyaltyPoint
}

func (s *loyaltyRepoStub) CreateProgram(context.Context, domain.LoyaltyProgram) error { return nil }

func (s *loyaltyRepoStub) GetProgram(context.Context, string) (*domain.LoyaltyProgram, error) {
	return nil, repository.ErrNotFound
}

func (s *loyaltyRepoStub) GetActiveProgram(context.Context) (*domain.LoyaltyProgram, error) {
	if s.program == nil {
		return nil, repository.ErrNotFound
	}
	return s.program, nil
}

func (s *loyaltyRepoStub) ListPrograms(context.Context, port.Page) ([]domain.LoyaltyProgram, error) {
	return nil, nil
}

func (s *loyaltyRepoStub) AddPoints(_ context.Context, entry domain.LoyaltyPoint) error {
	s.points = append(s.points, entry)
	return nil
}

func (s *loyaltyRepoStub) PointBalance(context.Context, string) (int, error) {
	total := 0
	for _, entry := range s.points {
		total += entry.Points
	}
	return total, nil
}

func (s *loyaltyRepoStub) ListPoints(context.Context, string, port.Page) ([]domain.LoyaltyPoint, error) {
	return s.points, nil
}

type auditRepoStub struct {
	entries []domain.AuditLog
}

func (s *auditRepoStub) Record(_ context.Context, entry domain.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *auditRepoStub) List(context.Context, port.Page) ([]domain.AuditLog, error) {
	return s.entries, nil
}

func (s *auditRepoStub) ListByEntity(context.Context, string, string, port.Page) ([]domain.AuditLog, error) {
	return s.entries, nil
}

type salesFixture struct {
	svc       *SalesService
	sales     *salesRepoStub
	inventory *inventoryRepoStub
	customers *customerRepoStub
	loyalty   *loyaltyRepoStub
	events    *eventsStub
	audit     *auditRepoStub
}

func newSalesFixture() *salesFixture {
	f := &salesFixture{
		sales:     &salesRepoStub{},
		inventory: &inventoryRepoStub{levels: map[string]int{}},
		customers: &customerRepoStub{known: map[string]bool{}},
		loyalty:   &loyaltyRepoStub{},
		events:    &eventsStub{},
		audit:     &auditRepoStub{},
	}
	f.svc = NewSalesService(
		f.sales,
		f.inventory,
		f.customers,
		f.loyalty,
		f.events,
		NewAuditRecorder(f.audit, zap.NewNop()),
		zap.NewNop(),
	)
	return f
}

func checkoutWith(customerID *string) domain.SalesTransaction {
	return domain.SalesTransaction{
		StoreID:       "store-1",
		CashierID:     "cashier-1",
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentCard,
		SubTotal:      30,
		GrandTotal:    28,
		Items: []domain.SaleItem{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: 10, Discount: 2},
			{ProductID: "prod-2", Quantity: 1, UnitPrice: 10},
		},
	}
}

func TestSalesServiceRecord(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 5
	f.inventory.levels["prod-2"] = 5
	f.customers.known["cust-1"] = true
	f.loyalty.program = &domain.LoyaltyProgram{ID: "prog-1", PointsPerDollar: 1.5, ExpirationDays: 365, Active: true}

	customerID := "cust-1"
	tx, err := f.svc.Record(context.Background(), checkoutWith(&customerID))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	if tx.ReferenceNumber == "" {
		t.Fatal("transaction must get a reference number")
	}
	if tx.DiscountTotal != 2 {
		t.Fatalf("expected discount total 2, got %v", tx.DiscountTotal)
	}
	if tx.Items[0].LineTotal != 18 {
		t.Fatalf("expected line total 18, got %v", tx.Items[0].LineTotal)
	}
	if f.inventory.levels["prod-1"] != 3 || f.inventory.levels["prod-2"] != 4 {
		t.Fatalf("stock must be booked out: %v", f.inventory.levels)
	}
	if len(f.inventory.movements) != 2 || f.inventory.movements[0].Type != domain.StockMovementOut {
		t.Fatalf("every sold line needs an OUT movement, got %v", f.inventory.movements)
	}

	// floor(28 * 1.5) = 42 points, expiring per program policy.
	if tx.LoyaltyPointsEarned != 42 {
		t.Fatalf("expected 42 points earned, got %d", tx.LoyaltyPointsEarned)
	}
	if len(f.loyalty.points) != 1 || f.loyalty.points[0].ExpiresAt == nil {
		t.Fatalf("expected one expiring ledger entry, got %v", f.loyalty.points)
	}
	if len(f.customers.purchases) != 1 || f.customers.purchases[0] != 28 {
		t.Fatalf("customer running total must get the grand total, got %v", f.customers.purchases)
	}
	if len(f.events.sales) != 1 || f.events.sales[0].ItemCount != 2 {
		t.Fatalf("expected one sale.recorded event, got %v", f.events.sales)
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != "sale.record" {
		t.Fatalf("expected a sale.record audit entry, got %v", f.audit.entries)
	}
}

func TestSalesServiceRecordTotalsMismatch(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 5
	f.inventory.levels["prod-2"] = 5

	checkout := checkoutWith(nil)
	checkout.GrandTotal = 99

	_, err := f.svc.Record(context.Background(), checkout)
	if !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("expected ErrTotalsMismatch, got %v", err)
	}
	if len(f.sales.created) != 0 {
		t.Fatal("a mismatched checkout must not be persisted")
	}
}

func TestSalesServiceRecordInsufficientStock(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 1
	f.inventory.levels["prod-2"] = 5

	_, err := f.svc.Record(context.Background(), checkoutWith(nil))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if len(f.sales.created) != 0 {
		t.Fatal("an oversell must fail before anything is written")
	}
	if f.inventory.levels["prod-1"] != 1 {
		t.Fatal("stock must be untouched after a rejected checkout")
	}
}

func TestSalesServiceRecordFailedInsertLeavesNoLedgerEntry(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 5
	f.inventory.levels["prod-2"] = 5
	f.customers.known["cust-1"] = true
	f.loyalty.program = &domain.LoyaltyProgram{ID: "prog-1", PointsPerDollar: 1.5, Active: true}
	f.sales.createErr = errors.New("connection reset by peer")

	customerID := "cust-1"
	if _, err := f.svc.Record(context.Background(), checkoutWith(&customerID)); err == nil {
		t.Fatal("Record must fail when the transaction row cannot be written")
	}

	if len(f.loyalty.points) != 0 {
		t.Fatalf("no ledger entry may outlive an unrecorded sale, got %v", f.loyalty.points)
	}
	if f.inventory.levels["prod-1"] != 5 || f.inventory.levels["prod-2"] != 5 {
		t.Fatalf("stock must be untouched after a failed insert: %v", f.inventory.levels)
	}
	if len(f.events.sales) != 0 {
		t.Fatal("no event may be published for an unrecorded sale")
	}
}

func TestSalesServiceRecordWithoutActiveProgram(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 5
	f.inventory.levels["prod-2"] = 5
	f.customers.known["cust-1"] = true

	customerID := "cust-1"
	tx, err := f.svc.Record(context.Background(), checkoutWith(&customerID))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if tx.LoyaltyPointsEarned != 0 {
		t.Fatalf("without a program the sale earns nothing, got %d", tx.LoyaltyPointsEarned)
	}
	if len(f.loyalty.points) != 0 {
		t.Fatal("no ledger entry may be written without a program")
	}
}

func TestSalesServiceRefund(t *testing.T) {
	f := newSalesFixture()
	f.inventory.levels["prod-1"] = 5
	f.inventory.levels["prod-2"] = 5

	tx, err := f.svc.Record(context.Background(), checkoutWith(nil))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	reversal, err := f.svc.Refund(context.Background(), "manager-1", tx.ID, "damaged goods")
	if err != nil {
		t.Fatalf("Refund returned error: %v", err)
	}

	if reversal.OriginalTransactionID == nil || *reversal.OriginalTransactionID != tx.ID {
		t.Fatal("the reversal must link back to the original transaction")
	}
	if reversal.GrandTotal != -tx.GrandTotal {
		t.Fatalf("expected grand total %v, got %v", -tx.GrandTotal, reversal.GrandTotal)
	}
	if reversal.ReferenceNumber != fmt.Sprintf("RF-%s", tx.ReferenceNumber) {
		t.Fatalf("unexpected reversal reference %q", reversal.ReferenceNumber)
	}
	if f.inventory.levels["prod-1"] != 5 || f.inventory.levels["prod-2"] != 5 {
		t.Fatalf("refund must restock every line, got %v", f.inventory.levels)
	}

	if _, err := f.svc.Refund(context.Background(), "manager-1", tx.ID, "again"); !errors.Is(err, ErrAlreadyRefunded) {
		t.Fatalf("expected ErrAlreadyRefunded, got %v", err)
	}
}
