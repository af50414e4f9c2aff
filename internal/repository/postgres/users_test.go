package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/repository"
)

func newMockUserRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &UserRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	return repo, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	now := time.Now().UTC()
	lastLogin := now.Add(-time.Hour)
	email := "margaux@example.com"
	storeID := "store-1"
	roleID := "role-1"

	rows := pgxmock.NewRows(userColumns).AddRow(
		"user-1",
		"margaux",
		&email,
		nil,
		"Margaux",
		"Lanier",
		&storeID,
		&roleID,
		"$2a$10$hash",
		domain.UserStatusActive,
		true,
		&lastLogin,
		now,
		now,
	)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if user.Username != "margaux" {
		t.Fatalf("expected username margaux, got %q", user.Username)
	}
	if user.Email != "margaux@example.com" {
		t.Fatalf("expected email to round-trip, got %q", user.Email)
	}
	if user.Phone != "" {
		t.Fatalf("expected NULL phone to map to empty string, got %q", user.Phone)
	}
	if user.Status != domain.UserStatusActive {
		t.Fatalf("expected active status, got %q", user.Status)
	}
	if user.LastLogin == nil || !user.LastLogin.Equal(lastLogin) {
		t.Fatalf("expected last login %v, got %v", lastLogin, user.LastLogin)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Create_MapsUniqueViolation(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), domain.User{
		ID:       "user-1",
		Username: "margaux",
		Email:    "margaux@example.com",
		Status:   domain.UserStatusActive,
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ExistsByAny(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`SELECT 1 FROM users WHERE`).
		WithArgs("margaux@example.com", "margaux").
		WillReturnRows(pgxmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByAny(context.Background(), "margaux@example.com", "", "margaux")
	if err != nil {
		t.Fatalf("ExistsByAny returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected collision to be reported")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ExistsByAny_NoFields(t *testing.T) {
	repo, _ := newMockUserRepository(t)

	exists, err := repo.ExistsByAny(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("ExistsByAny returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no collision when nothing is checked")
	}
}

func TestUserRepository_SetOnline_NotFound(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(`UPDATE users SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetOnline(context.Background(), "missing", true, time.Now().UTC())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
