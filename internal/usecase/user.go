package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/repository"
)

// UserService exposes account administration.
type UserService struct {
	users port.UserRepository
	roles port.RoleRepository
	audit *AuditRecorder
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, roles port.RoleRepository, audit *AuditRecorder) *UserService {
	return &UserService{users: users, roles: roles, audit: audit}
}

// Get retrieves a user by ID with the password hash stripped.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// List returns a page of users with password hashes stripped.
func (s *UserService) List(ctx context.Context, page port.Page) ([]domain.User, error) {
	users, err := s.users.List(ctx, page)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Update replaces mutable profile attributes. The password hash is carried
// over unchanged; password changes go through the dedicated flow.
func (s *UserService) Update(ctx context.Context, actorID string, user domain.User) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = current.PasswordHash

	if user.RoleID != "" && user.RoleID != current.RoleID {
		if _, err := s.roles.GetByID(ctx, user.RoleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: role does not exist", ErrValidation)
			}
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "user.update",
		Entity:   "user",
		EntityID: user.ID,
		OldValue: map[string]any{"role_id": current.RoleID, "status": current.Status},
		NewValue: map[string]any{"role_id": user.RoleID, "status": user.Status},
	})

	return s.Get(ctx, user.ID)
}

// CreateRole registers a named permission profile.
func (s *UserService) CreateRole(ctx context.Context, actorID string, role domain.Role) (*domain.Role, error) {
	if strings.TrimSpace(role.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if _, err := s.roles.GetByName(ctx, role.Name); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	role.ID = uuid.NewString()
	role.CreatedAt = now
	role.UpdatedAt = now

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "role.create",
		Entity:   "role",
		EntityID: role.ID,
		NewValue: map[string]any{"name": role.Name, "permissions": role.Permissions},
	})

	return &role, nil
}

// GetRole retrieves a role by ID.
func (s *UserService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// ListRoles returns roles ordered by name.
func (s *UserService) ListRoles(ctx context.Context, page port.Page) ([]domain.Role, error) {
	return s.roles.List(ctx, page)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "user.delete",
		Entity:   "user",
		EntityID: id,
	})

	return nil
}
