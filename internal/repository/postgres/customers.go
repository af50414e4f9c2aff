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

var customerColumns = []string{
	"id",
	"code",
	"first_name",
	"last_name",
	"email",
	"phone",
	"join_date",
	"segment",
	"total_spent",
	"last_purchase_date",
	"active",
	"created_at",
	"updated_at",
}

// CustomerRepository implements port.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCustomerRepository wires a PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new customer row.
func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	stmt, args, err := r.builder.Insert("customers").
		Columns(customerColumns...).
		Values(
			customer.ID,
			customer.Code,
			customer.FirstName,
			customer.LastName,
			nullable(customer.Email),
			nullable(customer.Phone),
			customer.JoinDate,
			customer.Segment,
			customer.TotalSpent,
			customer.LastPurchaseDate,
			customer.Active,
			customer.CreatedAt,
			customer.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert customer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert customer: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a customer by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a customer by loyalty card code.
func (r *CustomerRepository) GetByCode(ctx context.Context, code string) (*domain.Customer, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code})
}

func (r *CustomerRepository) getBy(ctx context.Context, cond squirrel.Eq) (*domain.Customer, error) {
	stmt, args, err := r.builder.
		Select(customerColumns...).
		From("customers").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select customer sql: %w", err)
	}

	return scanCustomer(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable customer attributes.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	stmt, args, err := r.builder.Update("customers").
		Set("code", customer.Code).
		Set("first_name", customer.FirstName).
		Set("last_name", customer.LastName).
		Set("email", nullable(customer.Email)).
		Set("phone", nullable(customer.Phone)).
		Set("segment", customer.Segment).
		Set("active", customer.Active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": customer.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update customer sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a customer row.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete customer sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of customers ordered by join date, newest first.
func (r *CustomerRepository) List(ctx context.Context, page port.Page) ([]domain.Customer, error) {
	stmt, args, err := r.builder.
		Select(customerColumns...).
		From("customers").
		OrderBy("join_date DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list customers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}

	return customers, rows.Err()
}

// RecordPurchase adds the sale amount to the running total and stamps the
// last purchase date.
func (r *CustomerRepository) RecordPurchase(ctx context.Context, id string, amount float64) error {
	now := time.Now().UTC()
	stmt, args, err := r.builder.Update("customers").
		Set("total_spent", squirrel.Expr("total_spent + ?", amount)).
		Set("last_purchase_date", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record purchase sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer domain.Customer
		email    *string
		phone    *string
	)

	if err := row.Scan(
		&customer.ID,
		&customer.Code,
		&customer.FirstName,
		&customer.LastName,
		&email,
		&phone,
		&customer.JoinDate,
		&customer.Segment,
		&customer.TotalSpent,
		&customer.LastPurchaseDate,
		&customer.Active,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	customer.Email = deref(email)
	customer.Phone = deref(phone)

	return &customer, nil
}

var _ port.CustomerRepository = (*CustomerRepository)(nil)
