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

var categoryColumns = []string{
	"id",
	"name",
	"description",
	"parent_id",
	"created_at",
	"updated_at",
}

// CategoryRepository implements port.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCategoryRepository wires a PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new category row.
func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Insert("categories").
		Columns(categoryColumns...).
		Values(
			category.ID,
			category.Name,
			category.Description,
			category.ParentID,
			category.CreatedAt,
			category.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert category sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert category: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a category by identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	stmt, args, err := r.builder.
		Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select category sql: %w", err)
	}

	return scanCategory(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable category attributes.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Update("categories").
		Set("name", category.Name).
		Set("description", category.Description).
		Set("parent_id", category.ParentID).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update category sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a category row.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete category sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context, page port.Page) ([]domain.Category, error) {
	stmt, args, err := r.builder.
		Select(categoryColumns...).
		From("categories").
		OrderBy("name ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ParentID,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &category, nil
}

var _ port.CategoryRepository = (*CategoryRepository)(nil)

var productColumns = []string{
	"id",
	"ean_code",
	"internal_code",
	"name",
	"brand",
	"description",
	"price",
	"unit",
	"weight",
	"volume",
	"allergens",
	"status",
	"perishable",
	"expires_at",
	"category_id",
	"created_at",
	"updated_at",
}

// ProductRepository implements port.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProductRepository wires a PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Insert("products").
		Columns(productColumns...).
		Values(
			product.ID,
			product.EANCode,
			product.InternalCode,
			product.Name,
			product.Brand,
			product.Description,
			product.Price,
			product.Unit,
			product.Weight,
			product.Volume,
			product.Allergens,
			product.Status,
			product.Perishable,
			product.ExpiresAt,
			nullable(product.CategoryID),
			product.CreatedAt,
			product.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert product: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a product by identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEAN retrieves a product by its EAN barcode.
func (r *ProductRepository) GetByEAN(ctx context.Context, eanCode string) (*domain.Product, error) {
	return r.getBy(ctx, squirrel.Eq{"ean_code": eanCode})
}

func (r *ProductRepository) getBy(ctx context.Context, cond squirrel.Eq) (*domain.Product, error) {
	stmt, args, err := r.builder.
		Select(productColumns...).
		From("products").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product sql: %w", err)
	}

	return scanProduct(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable product attributes.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Update("products").
		Set("ean_code", product.EANCode).
		Set("internal_code", product.InternalCode).
		Set("name", product.Name).
		Set("brand", product.Brand).
		Set("description", product.Description).
		Set("price", product.Price).
		Set("unit", product.Unit).
		Set("weight", product.Weight).
		Set("volume", product.Volume).
		Set("allergens", product.Allergens).
		Set("status", product.Status).
		Set("perishable", product.Perishable).
		Set("expires_at", product.ExpiresAt).
		Set("category_id", nullable(product.CategoryID)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a product row.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete product sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of products ordered by name.
func (r *ProductRepository) List(ctx context.Context, page port.Page) ([]domain.Product, error) {
	return r.list(ctx, nil, page)
}

// ListByCategory returns a page of products belonging to one category.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string, page port.Page) ([]domain.Product, error) {
	return r.list(ctx, squirrel.Eq{"category_id": categoryID}, page)
}

func (r *ProductRepository) list(ctx context.Context, cond squirrel.Eq, page port.Page) ([]domain.Product, error) {
	query := r.builder.
		Select(productColumns...).
		From("products").
		OrderBy("name ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))
	if cond != nil {
		query = query.Where(cond)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product    domain.Product
		categoryID *string
	)

	if err := row.Scan(
		&product.ID,
		&product.EANCode,
		&product.InternalCode,
		&product.Name,
		&product.Brand,
		&product.Description,
		&product.Price,
		&product.Unit,
		&product.Weight,
		&product.Volume,
		&product.Allergens,
		&product.Status,
		&product.Perishable,
		&product.ExpiresAt,
		&categoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	product.CategoryID = deref(categoryID)

	return &product, nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)
