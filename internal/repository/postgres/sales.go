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

var salesColumns = []string{
	"id",
	"store_id",
	"cashier_id",
	"customer_id",
	"payment_method",
	"transaction_date",
	"reference_number",
	"sub_total",
	"discount_total",
	"grand_total",
	"card_last4_digits",
	"loyalty_points_earned",
	"loyalty_points_redeemed",
	"refunded",
	"original_transaction_id",
	"notes",
	"created_at",
	"updated_at",
}

var saleItemColumns = []string{
	"id",
	"transaction_id",
	"product_id",
	"quantity",
	"unit_price",
	"discount",
	"line_total",
}

// SalesRepository implements port.SalesRepository using PostgreSQL.
type SalesRepository struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewSalesRepository wires a PostgreSQL-backed sales repository.
func NewSalesRepository(pool *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the transaction header and all sale lines within one
// transaction.
func (r *SalesRepository) Create(ctx context.Context, transaction domain.SalesTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.Insert("sales_transactions").
		Columns(salesColumns...).
		Values(
			transaction.ID,
			transaction.StoreID,
			transaction.CashierID,
			transaction.CustomerID,
			transaction.PaymentMethod,
			transaction.TransactionDate,
			transaction.ReferenceNumber,
			transaction.SubTotal,
			transaction.DiscountTotal,
			transaction.GrandTotal,
			transaction.CardLast4Digits,
			transaction.LoyaltyPointsEarned,
			transaction.LoyaltyPointsRedeemed,
			transaction.Refunded,
			transaction.OriginalTransactionID,
			transaction.Notes,
			transaction.CreatedAt,
			transaction.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale sql: %w", err)
	}

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert sale: %w", mapWriteError(err))
	}

	for _, item := range transaction.Items {
		stmt, args, err := r.builder.Insert("sale_items").
			Columns(saleItemColumns...).
			Values(
				item.ID,
				transaction.ID,
				item.ProductID,
				item.Quantity,
				item.UnitPrice,
				item.Discount,
				item.LineTotal,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert sale item sql: %w", err)
		}

		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert sale item: %w", mapWriteError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sale tx: %w", err)
	}

	return nil
}

// GetByID retrieves the transaction header together with its sale lines.
func (r *SalesRepository) GetByID(ctx context.Context, id string) (*domain.SalesTransaction, error) {
	stmt, args, err := r.builder.
		Select(salesColumns...).
		From("sales_transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select sale sql: %w", err)
	}

	transaction, err := scanSale(r.pool.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	transaction.Items = items

	return transaction, nil
}

// MarkRefunded flags a transaction as refunded.
func (r *SalesRepository) MarkRefunded(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("sales_transactions").
		Set("refunded", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark refunded sql: %w", err)
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of transactions for one store, newest first. Sale
// lines are not loaded for listings.
func (r *SalesRepository) List(ctx context.Context, storeID string, page port.Page) ([]domain.SalesTransaction, error) {
	stmt, args, err := r.builder.
		Select(salesColumns...).
		From("sales_transactions").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("transaction_date DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var transactions []domain.SalesTransaction
	for rows.Next() {
		transaction, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	return transactions, rows.Err()
}

func (r *SalesRepository) loadItems(ctx context.Context, transactionID string) ([]domain.SaleItem, error) {
	stmt, args, err := r.builder.
		Select(saleItemColumns...).
		From("sale_items").
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("product_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select sale items sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(
			&item.ID,
			&item.TransactionID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Discount,
			&item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanSale(row pgx.Row) (*domain.SalesTransaction, error) {
	var transaction domain.SalesTransaction
	if err := row.Scan(
		&transaction.ID,
		&transaction.StoreID,
		&transaction.CashierID,
		&transaction.CustomerID,
		&transaction.PaymentMethod,
		&transaction.TransactionDate,
		&transaction.ReferenceNumber,
		&transaction.SubTotal,
		&transaction.DiscountTotal,
		&transaction.GrandTotal,
		&transaction.CardLast4Digits,
		&transaction.LoyaltyPointsEarned,
		&transaction.LoyaltyPointsRedeemed,
		&transaction.Refunded,
		&transaction.OriginalTransactionID,
		&transaction.Notes,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}

	return &transaction, nil
}

var _ port.SalesRepository = (*SalesRepository)(nil)
