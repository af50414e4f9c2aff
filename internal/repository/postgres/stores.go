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

var storeColumns = []string{
	"id",
	"code",
	"name",
	"address",
	"city",
	"postal_code",
	"country",
	"phone",
	"email",
	"manager_id",
	"opening_hours",
	"area",
	"active",
	"created_at",
	"updated_at",
}

// StoreRepository implements port.StoreRepository using PostgreSQL.
type StoreRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewStoreRepository wires a PostgreSQL-backed store repository.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new store row.
func (r *StoreRepository) Create(ctx context.Context, store domain.Store) error {
	stmt, args, err := r.builder.Insert("stores").
		Columns(storeColumns...).
		Values(
			store.ID,
			store.Code,
			store.Name,
			store.Address,
			store.City,
			store.PostalCode,
			store.Country,
			store.Phone,
			store.Email,
			nullable(store.ManagerID),
			store.OpeningHours,
			store.Area,
			store.Active,
			store.CreatedAt,
			store.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert store sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert store: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a store by identifier.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a store by its unique code.
func (r *StoreRepository) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code})
}

func (r *StoreRepository) getBy(ctx context.Context, cond squirrel.Eq) (*domain.Store, error) {
	stmt, args, err := r.builder.
		Select(storeColumns...).
		From("stores").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select store sql: %w", err)
	}

	return scanStore(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable store attributes.
func (r *StoreRepository) Update(ctx context.Context, store domain.Store) error {
	stmt, args, err := r.builder.Update("stores").
		Set("code", store.Code).
		Set("name", store.Name).
		Set("address", store.Address).
		Set("city", store.City).
		Set("postal_code", store.PostalCode).
		Set("country", store.Country).
		Set("phone", store.Phone).
		Set("email", store.Email).
		Set("manager_id", nullable(store.ManagerID)).
		Set("opening_hours", store.OpeningHours).
		Set("area", store.Area).
		Set("active", store.Active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": store.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update store sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update store: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a store row.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("stores").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete store sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of stores ordered by code.
func (r *StoreRepository) List(ctx context.Context, page port.Page) ([]domain.Store, error) {
	stmt, args, err := r.builder.
		Select(storeColumns...).
		From("stores").
		OrderBy("code ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stores sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}

	return stores, rows.Err()
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var (
		store     domain.Store
		managerID *string
	)

	if err := row.Scan(
		&store.ID,
		&store.Code,
		&store.Name,
		&store.Address,
		&store.City,
		&store.PostalCode,
		&store.Country,
		&store.Phone,
		&store.Email,
		&managerID,
		&store.OpeningHours,
		&store.Area,
		&store.Active,
		&store.CreatedAt,
		&store.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan store: %w", err)
	}

	store.ManagerID = deref(managerID)

	return &store, nil
}

var _ port.StoreRepository = (*StoreRepository)(nil)
