package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
)

var auditColumns = []string{
	"id",
	"user_id",
	"action",
	"entity",
	"entity_id",
	"old_value",
	"new_value",
	"ip_address",
	"user_agent",
	"created_at",
}

// AuditRepository implements port.AuditRepository using PostgreSQL. Old and
// new values are stored as JSONB.
type AuditRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAuditRepository wires a PostgreSQL-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record appends an audit entry. Entries are never updated or deleted.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditLog) error {
	stmt, args, err := r.builder.Insert("audit_logs").
		Columns(auditColumns...).
		Values(
			entry.ID,
			nullable(entry.UserID),
			entry.Action,
			entry.Entity,
			nullable(entry.EntityID),
			entry.OldValue,
			entry.NewValue,
			entry.IPAddress,
			entry.UserAgent,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}

	return nil
}

// List returns a page of audit entries, newest first.
func (r *AuditRepository) List(ctx context.Context, page port.Page) ([]domain.AuditLog, error) {
	return r.list(ctx, nil, page)
}

// ListByEntity returns a page of audit entries touching one entity.
func (r *AuditRepository) ListByEntity(ctx context.Context, entity, entityID string, page port.Page) ([]domain.AuditLog, error) {
	return r.list(ctx, squirrel.Eq{"entity": entity, "entity_id": entityID}, page)
}

func (r *AuditRepository) list(ctx context.Context, cond squirrel.Eq, page port.Page) ([]domain.AuditLog, error) {
	query := r.builder.
		Select(auditColumns...).
		From("audit_logs").
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))
	if cond != nil {
		query = query.Where(cond)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		entry, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

func scanAudit(row pgx.Row) (*domain.AuditLog, error) {
	var (
		entry    domain.AuditLog
		userID   *string
		entityID *string
	)

	if err := row.Scan(
		&entry.ID,
		&userID,
		&entry.Action,
		&entry.Entity,
		&entityID,
		&entry.OldValue,
		&entry.NewValue,
		&entry.IPAddress,
		&entry.UserAgent,
		&entry.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan audit: %w", err)
	}

	entry.UserID = deref(userID)
	entry.EntityID = deref(entityID)

	return &entry, nil
}

var _ port.AuditRepository = (*AuditRepository)(nil)
