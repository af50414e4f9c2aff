package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

var supplierColumns = []string{
	"id",
	"code",
	"name",
	"contact_name",
	"email",
	"phone",
	"address",
	"payment_terms",
	"lead_time_days",
	"active",
	"created_at",
	"updated_at",
}

// SupplierRepository implements port.SupplierRepository using PostgreSQL.
type SupplierRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSupplierRepository wires a PostgreSQL-backed supplier repository.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new supplier row.
func (r *SupplierRepository) Create(ctx context.Context, supplier domain.Supplier) error {
	stmt, args, err := r.builder.Insert("suppliers").
		Columns(supplierColumns...).
		Values(
			supplier.ID,
			supplier.Code,
			supplier.Name,
			supplier.ContactName,
			supplier.Email,
			supplier.Phone,
			supplier.Address,
			supplier.PaymentTerms,
			supplier.LeadTimeDays,
			supplier.Active,
			supplier.CreatedAt,
			supplier.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert supplier sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a supplier by identifier.
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	stmt, args, err := r.builder.
		Select(supplierColumns...).
		From("suppliers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select supplier sql: %w", err)
	}

	return scanSupplier(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable supplier attributes.
func (r *SupplierRepository) Update(ctx context.Context, supplier domain.Supplier) error {
	stmt, args, err := r.builder.Update("suppliers").
		Set("code", supplier.Code).
		Set("name", supplier.Name).
		Set("contact_name", supplier.ContactName).
		Set("email", supplier.Email).
		Set("phone", supplier.Phone).
		Set("address", supplier.Address).
		Set("payment_terms", supplier.PaymentTerms).
		Set("lead_time_days", supplier.LeadTimeDays).
		Set("active", supplier.Active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": supplier.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update supplier sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a supplier row.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("suppliers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete supplier sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of suppliers ordered by name.
func (r *SupplierRepository) List(ctx context.Context, page port.Page) ([]domain.Supplier, error) {
	stmt, args, err := r.builder.
		Select(supplierColumns...).
		From("suppliers").
		OrderBy("name ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list suppliers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *supplier)
	}

	return suppliers, rows.Err()
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := row.Scan(
		&supplier.ID,
		&supplier.Code,
		&supplier.Name,
		&supplier.ContactName,
		&supplier.Email,
		&supplier.Phone,
		&supplier.Address,
		&supplier.PaymentTerms,
		&supplier.LeadTimeDays,
		&supplier.Active,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}

	return &supplier, nil
}

var _ port.SupplierRepository = (*SupplierRepository)(nil)

var purchaseOrderColumns = []string{
	"id",
	"number",
	"supplier_id",
	"store_id",
	"order_date",
	"expected_delivery_date",
	"actual_delivery_date",
	"status",
	"total_amount",
	"tax_amount",
	"grand_total",
	"notes",
	"created_by",
	"created_at",
	"updated_at",
}

var purchaseOrderItemColumns = []string{
	"id",
	"purchase_order_id",
	"product_id",
	"quantity_ordered",
	"quantity_received",
	"unit_price",
	"line_total",
}

// PurchaseOrderRepository implements port.PurchaseOrderRepository using PostgreSQL.
type PurchaseOrderRepository struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewPurchaseOrderRepository wires a PostgreSQL-backed purchase order repository.
func NewPurchaseOrderRepository(pool *pgxpool.Pool) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the order header and all line items within one transaction.
func (r *PurchaseOrderRepository) Create(ctx context.Context, order domain.PurchaseOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin purchase order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.Insert("purchase_orders").
		Columns(purchaseOrderColumns...).
		Values(
			order.ID,
			order.Number,
			order.SupplierID,
			order.StoreID,
			order.OrderDate,
			order.ExpectedDeliveryDate,
			order.ActualDeliveryDate,
			order.Status,
			order.TotalAmount,
			order.TaxAmount,
			order.GrandTotal,
			order.Notes,
			nullable(order.CreatedBy),
			order.CreatedAt,
			order.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert purchase order sql: %w", err)
	}

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert purchase order: %w", mapWriteError(err))
	}

	for _, item := range order.Items {
		stmt, args, err := r.builder.Insert("purchase_order_items").
			Columns(purchaseOrderItemColumns...).
			Values(
				item.ID,
				order.ID,
				item.ProductID,
				item.QuantityOrdered,
				item.QuantityReceived,
				item.UnitPrice,
				item.LineTotal,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert order item sql: %w", err)
		}

		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert order item: %w", mapWriteError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit purchase order tx: %w", err)
	}

	return nil
}

// GetByID retrieves the order header together with its line items.
func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	stmt, args, err := r.builder.
		Select(purchaseOrderColumns...).
		From("purchase_orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select purchase order sql: %w", err)
	}

	order, err := scanPurchaseOrder(r.pool.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// UpdateStatus transitions the order lifecycle state.
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.PurchaseOrderStatus) error {
	update := r.builder.Update("purchase_orders").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	if status == domain.PurchaseOrderCompleted {
		update = update.Set("actual_delivery_date", time.Now().UTC())
	}

	stmt, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update order status sql: %w", err)
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordReceipt increments received quantities per product within one
// transaction. The caller derives the resulting order status.
func (r *PurchaseOrderRepository) RecordReceipt(ctx context.Context, orderID string, received map[string]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin receipt tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for productID, quantity := range received {
		stmt, args, err := r.builder.Update("purchase_order_items").
			Set("quantity_received", squirrel.Expr("quantity_received + ?", quantity)).
			Where(squirrel.Eq{"purchase_order_id": orderID, "product_id": productID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build receipt update sql: %w", err)
		}

		tag, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("update received quantity: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit receipt tx: %w", err)
	}

	return nil
}

// List returns a page of orders for one store, newest first. Line items are
// not loaded for listings.
func (r *PurchaseOrderRepository) List(ctx context.Context, storeID string, page port.Page) ([]domain.PurchaseOrder, error) {
	stmt, args, err := r.builder.
		Select(purchaseOrderColumns...).
		From("purchase_orders").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("order_date DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	for rows.Next() {
		order, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

func (r *PurchaseOrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.PurchaseOrderItem, error) {
	stmt, args, err := r.builder.
		Select(purchaseOrderItemColumns...).
		From("purchase_order_items").
		Where(squirrel.Eq{"purchase_order_id": orderID}).
		OrderBy("product_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select order items sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.PurchaseOrderItem
	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(
			&item.ID,
			&item.PurchaseOrderID,
			&item.ProductID,
			&item.QuantityOrdered,
			&item.QuantityReceived,
			&item.UnitPrice,
			&item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*domain.PurchaseOrder, error) {
	var (
		order     domain.PurchaseOrder
		createdBy *string
	)

	if err := row.Scan(
		&order.ID,
		&order.Number,
		&order.SupplierID,
		&order.StoreID,
		&order.OrderDate,
		&order.ExpectedDeliveryDate,
		&order.ActualDeliveryDate,
		&order.Status,
		&order.TotalAmount,
		&order.TaxAmount,
		&order.GrandTotal,
		&order.Notes,
		&createdBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}

	order.CreatedBy = deref(createdBy)

	return &order, nil
}

var _ port.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)
