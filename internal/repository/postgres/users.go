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

var userColumns = []string{
	"id",
	"username",
	"email",
	"phone",
	"first_name",
	"last_name",
	"store_id",
	"role_id",
	"password_hash",
	"status",
	"online",
	"last_login",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.builder.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			nullable(user.Email),
			nullable(user.Phone),
			user.FirstName,
			user.LastName,
			nullable(user.StoreID),
			nullable(user.RoleID),
			user.PasswordHash,
			user.Status,
			user.Online,
			user.LastLogin,
			user.CreatedAt,
			user.UpdatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByIdentifier matches the identifier against username, email, or phone.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Or{
			squirrel.Eq{"username": identifier},
			squirrel.Eq{"email": identifier},
			squirrel.Eq{"phone": identifier},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// ExistsByAny reports whether any account collides on email, phone, or username.
func (r *UserRepository) ExistsByAny(ctx context.Context, email, phone, username string) (bool, error) {
	conditions := squirrel.Or{}
	if email != "" {
		conditions = append(conditions, squirrel.Eq{"email": email})
	}
	if phone != "" {
		conditions = append(conditions, squirrel.Eq{"phone": phone})
	}
	if username != "" {
		conditions = append(conditions, squirrel.Eq{"username": username})
	}
	if len(conditions) == 0 {
		return false, nil
	}

	stmt, args, err := r.builder.
		Select("1").
		From("users").
		Where(conditions).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists user sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user existence: %w", err)
	}

	return true, nil
}

// SetOnline flips the presence flag and stamps the last login time.
func (r *UserRepository) SetOnline(ctx context.Context, id string, online bool, lastLogin time.Time) error {
	update := r.builder.Update("users").
		Set("online", online).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	if online {
		update = update.Set("last_login", lastLogin)
	}

	stmt, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user presence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Update persists mutable user attributes.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("users").
		Set("username", user.Username).
		Set("email", nullable(user.Email)).
		Set("phone", nullable(user.Phone)).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("store_id", nullable(user.StoreID)).
		Set("role_id", nullable(user.RoleID)).
		Set("password_hash", user.PasswordHash).
		Set("status", user.Status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a user row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns a page of users ordered by creation time.
func (r *UserRepository) List(ctx context.Context, page port.Page) ([]domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		email     *string
		phone     *string
		storeID   *string
		roleID    *string
		lastLogin *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&phone,
		&user.FirstName,
		&user.LastName,
		&storeID,
		&roleID,
		&user.PasswordHash,
		&user.Status,
		&user.Online,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.Email = deref(email)
	user.Phone = deref(phone)
	user.StoreID = deref(storeID)
	user.RoleID = deref(roleID)
	user.LastLogin = lastLogin

	return &user, nil
}

// nullable maps empty strings to SQL NULL so partial unique indexes stay clean.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

var _ port.UserRepository = (*UserRepository)(nil)
