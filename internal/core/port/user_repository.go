package port

import (
	"context"
	"time"

	"github.com/wynresh/sunem/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIdentifier matches the identifier against username, email, or
	// phone (logical OR across all three).
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsByAny reports whether any account collides on email, phone, or
	// username. Used as a fast-path pre-check only; unique constraints stay
	// the authoritative guard.
	ExistsByAny(ctx context.Context, email, phone, username string) (bool, error)
	SetOnline(ctx context.Context, id string, online bool, lastLogin time.Time) error
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]domain.User, error)
}

// RoleRepository exposes persistence behavior for roles.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context, page Page) ([]domain.Role, error)
}
