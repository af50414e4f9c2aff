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

var inventoryColumns = []string{
	"id",
	"product_id",
	"store_id",
	"current_quantity",
	"reserved_quantity",
	"min_stock",
	"max_stock",
	"alert_threshold",
	"location",
	"last_update",
	"created_at",
	"updated_at",
}

var movementColumns = []string{
	"id",
	"product_id",
	"store_id",
	"type",
	"quantity",
	"reason",
	"reference",
	"user_id",
	"created_at",
}

// InventoryRepository implements port.InventoryRepository using PostgreSQL.
type InventoryRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewInventoryRepository wires a PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts or replaces the stock record for a product at a store.
func (r *InventoryRepository) Upsert(ctx context.Context, inventory domain.Inventory) error {
	stmt, args, err := r.builder.Insert("inventory").
		Columns(inventoryColumns...).
		Values(
			inventory.ID,
			inventory.ProductID,
			inventory.StoreID,
			inventory.CurrentQuantity,
			inventory.ReservedQuantity,
			inventory.MinStock,
			inventory.MaxStock,
			inventory.AlertThreshold,
			inventory.Location,
			inventory.LastUpdate,
			inventory.CreatedAt,
			inventory.UpdatedAt,
		).
		Suffix(`ON CONFLICT (product_id, store_id) DO UPDATE SET
			current_quantity = EXCLUDED.current_quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			min_stock = EXCLUDED.min_stock,
			max_stock = EXCLUDED.max_stock,
			alert_threshold = EXCLUDED.alert_threshold,
			location = EXCLUDED.location,
			last_update = EXCLUDED.last_update,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert inventory sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert inventory: %w", mapWriteError(err))
	}

	return nil
}

// GetByProductAndStore retrieves the stock record for a product at a store.
func (r *InventoryRepository) GetByProductAndStore(ctx context.Context, productID, storeID string) (*domain.Inventory, error) {
	stmt, args, err := r.builder.
		Select(inventoryColumns...).
		From("inventory").
		Where(squirrel.Eq{"product_id": productID, "store_id": storeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select inventory sql: %w", err)
	}

	return scanInventory(r.exec.QueryRow(ctx, stmt, args...))
}

// AdjustQuantity atomically applies a signed delta to the current quantity and
// returns the updated record.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, productID, storeID string, delta int) (*domain.Inventory, error) {
	now := time.Now().UTC()
	stmt, args, err := r.builder.Update("inventory").
		Set("current_quantity", squirrel.Expr("current_quantity + ?", delta)).
		Set("last_update", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"product_id": productID, "store_id": storeID}).
		Suffix("RETURNING " + joinColumns(inventoryColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build adjust inventory sql: %w", err)
	}

	return scanInventory(r.exec.QueryRow(ctx, stmt, args...))
}

// ListByStore returns a page of stock records for one store.
func (r *InventoryRepository) ListByStore(ctx context.Context, storeID string, page port.Page) ([]domain.Inventory, error) {
	stmt, args, err := r.builder.
		Select(inventoryColumns...).
		From("inventory").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("product_id ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inventory sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var records []domain.Inventory
	for rows.Next() {
		record, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// RecordMovement appends a stock movement journal entry.
func (r *InventoryRepository) RecordMovement(ctx context.Context, movement domain.StockMovement) error {
	stmt, args, err := r.builder.Insert("stock_movements").
		Columns(movementColumns...).
		Values(
			movement.ID,
			movement.ProductID,
			movement.StoreID,
			movement.Type,
			movement.Quantity,
			movement.Reason,
			movement.Reference,
			nullable(movement.UserID),
			movement.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert movement: %w", mapWriteError(err))
	}

	return nil
}

// ListMovements returns a page of journal entries for a product at a store,
// newest first.
func (r *InventoryRepository) ListMovements(ctx context.Context, productID, storeID string, page port.Page) ([]domain.StockMovement, error) {
	stmt, args, err := r.builder.
		Select(movementColumns...).
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID, "store_id": storeID}).
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var (
			movement domain.StockMovement
			userID   *string
		)
		if err := rows.Scan(
			&movement.ID,
			&movement.ProductID,
			&movement.StoreID,
			&movement.Type,
			&movement.Quantity,
			&movement.Reason,
			&movement.Reference,
			&userID,
			&movement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movement.UserID = deref(userID)
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

func scanInventory(row pgx.Row) (*domain.Inventory, error) {
	var inventory domain.Inventory
	if err := row.Scan(
		&inventory.ID,
		&inventory.ProductID,
		&inventory.StoreID,
		&inventory.CurrentQuantity,
		&inventory.ReservedQuantity,
		&inventory.MinStock,
		&inventory.MaxStock,
		&inventory.AlertThreshold,
		&inventory.Location,
		&inventory.LastUpdate,
		&inventory.CreatedAt,
		&inventory.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan inventory: %w", err)
	}

	return &inventory, nil
}

var _ port.InventoryRepository = (*InventoryRepository)(nil)
