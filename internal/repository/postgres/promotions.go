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

var promotionColumns = []string{
	"id",
	"code",
	"name",
	"description",
	"type",
	"discount_value",
	"min_quantity",
	"max_quantity",
	"start_date",
	"end_date",
	"apply_to_all_stores",
	"active",
	"created_at",
	"updated_at",
}

// PromotionRepository implements port.PromotionRepository using PostgreSQL.
type PromotionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPromotionRepository wires a PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new promotion row.
func (r *PromotionRepository) Create(ctx context.Context, promotion domain.Promotion) error {
	stmt, args, err := r.builder.Insert("promotions").
		Columns(promotionColumns...).
		Values(
			promotion.ID,
			promotion.Code,
			promotion.Name,
			promotion.Description,
			promotion.Type,
			promotion.DiscountValue,
			promotion.MinQuantity,
			promotion.MaxQuantity,
			promotion.StartDate,
			promotion.EndDate,
			promotion.ApplyToAllStores,
			promotion.Active,
			promotion.CreatedAt,
			promotion.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert promotion sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert promotion: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a promotion by identifier.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*domain.Promotion, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a promotion by its unique code.
func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code})
}

func (r *PromotionRepository) getBy(ctx context.Context, cond squirrel.Eq) (*domain.Promotion, error) {
	stmt, args, err := r.builder.
		Select(promotionColumns...).
		From("promotions").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select promotion sql: %w", err)
	}

	return scanPromotion(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable promotion attributes.
func (r *PromotionRepository) Update(ctx context.Context, promotion domain.Promotion) error {
	stmt, args, err := r.builder.Update("promotions").
		Set("code", promotion.Code).
		Set("name", promotion.Name).
		Set("description", promotion.Description).
		Set("type", promotion.Type).
		Set("discount_value", promotion.DiscountValue).
		Set("min_quantity", promotion.MinQuantity).
		Set("max_quantity", promotion.MaxQuantity).
		Set("start_date", promotion.StartDate).
		Set("end_date", promotion.EndDate).
		Set("apply_to_all_stores", promotion.ApplyToAllStores).
		Set("active", promotion.Active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": promotion.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update promotion sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update promotion: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a promotion row.
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("promotions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete promotion sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of promotions, most recent validity window first.
func (r *PromotionRepository) List(ctx context.Context, page port.Page) ([]domain.Promotion, error) {
	stmt, args, err := r.builder.
		Select(promotionColumns...).
		From("promotions").
		OrderBy("start_date DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list promotions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promotions []domain.Promotion
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, *promotion)
	}

	return promotions, rows.Err()
}

func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var promotion domain.Promotion
	if err := row.Scan(
		&promotion.ID,
		&promotion.Code,
		&promotion.Name,
		&promotion.Description,
		&promotion.Type,
		&promotion.DiscountValue,
		&promotion.MinQuantity,
		&promotion.MaxQuantity,
		&promotion.StartDate,
		&promotion.EndDate,
		&promotion.ApplyToAllStores,
		&promotion.Active,
		&promotion.CreatedAt,
		&promotion.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan promotion: %w", err)
	}

	return &promotion, nil
}

var _ port.PromotionRepository = (*PromotionRepository)(nil)
