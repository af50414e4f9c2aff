package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

var loyaltyProgramColumns = []string{
	"id",
	"name",
	"description",
	"points_per_dollar",
	"min_points_to_redeem",
	"expiration_days",
	"active",
	"created_at",
	"updated_at",
}

var loyaltyPointColumns = []string{
	"id",
	"customer_id",
	"program_id",
	"transaction_id",
	"points",
	"expires_at",
	"created_at",
}

// LoyaltyRepository implements port.LoyaltyRepository using PostgreSQL.
type LoyaltyRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLoyaltyRepository wires a PostgreSQL-backed loyalty repository.
func NewLoyaltyRepository(pool *pgxpool.Pool) *LoyaltyRepository {
	return &LoyaltyRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateProgram inserts a new loyalty program row.
func (r *LoyaltyRepository) CreateProgram(ctx context.Context, program domain.LoyaltyProgram) error {
	stmt, args, err := r.builder.Insert("loyalty_programs").
		Columns(loyaltyProgramColumns...).
		Values(
			program.ID,
			program.Name,
			program.Description,
			program.PointsPerDollar,
			program.MinPointsToRedeem,
			program.ExpirationDays,
			program.Active,
			program.CreatedAt,
			program.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert program sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert program: %w", mapWriteError(err))
	}

	return nil
}

// GetProgram retrieves a loyalty program by identifier.
func (r *LoyaltyRepository) GetProgram(ctx context.Context, id string) (*domain.LoyaltyProgram, error) {
	stmt, args, err := r.builder.
		Select(loyaltyProgramColumns...).
		From("loyalty_programs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select program sql: %w", err)
	}

	return scanLoyaltyProgram(r.exec.QueryRow(ctx, stmt, args...))
}

// GetActiveProgram retrieves the currently active loyalty program. If
// several are active the most recently created wins.
func (r *LoyaltyRepository) GetActiveProgram(ctx context.Context) (*domain.LoyaltyProgram, error) {
	stmt, args, err := r.builder.
		Select(loyaltyProgramColumns...).
		From("loyalty_programs").
		Where(squirrel.Eq{"active": true}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select active program sql: %w", err)
	}

	return scanLoyaltyProgram(r.exec.QueryRow(ctx, stmt, args...))
}

// ListPrograms returns a page of loyalty programs, newest first.
func (r *LoyaltyRepository) ListPrograms(ctx context.Context, page port.Page) ([]domain.LoyaltyProgram, error) {
	stmt, args, err := r.builder.
		Select(loyaltyProgramColumns...).
		From("loyalty_programs").
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list programs sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []domain.LoyaltyProgram
	for rows.Next() {
		program, err := scanLoyaltyProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *program)
	}

	return programs, rows.Err()
}

// AddPoints appends an accrual or redemption entry to the point ledger.
func (r *LoyaltyRepository) AddPoints(ctx context.Context, entry domain.LoyaltyPoint) error {
	stmt, args, err := r.builder.Insert("loyalty_points").
		Columns(loyaltyPointColumns...).
		Values(
			entry.ID,
			entry.CustomerID,
			entry.ProgramID,
			entry.TransactionID,
			entry.Points,
			entry.ExpiresAt,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert points sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert points: %w", mapWriteError(err))
	}

	return nil
}

// PointBalance sums all non-expired ledger entries for a customer.
func (r *LoyaltyRepository) PointBalance(ctx context.Context, customerID string) (int, error) {
	stmt, args, err := r.builder.
		Select("COALESCE(SUM(points), 0)").
		From("loyalty_points").
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.Expr("expires_at > NOW()"),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build point balance sql: %w", err)
	}

	var balance int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&balance); err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}

	return balance, nil
}

// ListPoints returns a page of ledger entries for a customer, newest first.
func (r *LoyaltyRepository) ListPoints(ctx context.Context, customerID string, page port.Page) ([]domain.LoyaltyPoint, error) {
	stmt, args, err := r.builder.
		Select(loyaltyPointColumns...).
		From("loyalty_points").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list points sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	var entries []domain.LoyaltyPoint
	for rows.Next() {
		var entry domain.LoyaltyPoint
		if err := rows.Scan(
			&entry.ID,
			&entry.CustomerID,
			&entry.ProgramID,
			&entry.TransactionID,
			&entry.Points,
			&entry.ExpiresAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan points entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanLoyaltyProgram(row pgx.Row) (*domain.LoyaltyProgram, error) {
	var program domain.LoyaltyProgram
	if err := row.Scan(
		&program.ID,
		&program.Name,
		&program.Description,
		&program.PointsPerDollar,
		&program.MinPointsToRedeem,
		&program.ExpirationDays,
		&program.Active,
		&program.CreatedAt,
		&program.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan program: %w", err)
	}

	return &program, nil
}

var _ port.LoyaltyRepository = (*LoyaltyRepository)(nil)
