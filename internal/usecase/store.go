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

// ErrDuplicateCode indicates another record already holds the business code.
var ErrDuplicateCode = errors.New("code already in use")

// StoreService manages retail locations.
type StoreService struct {
	stores port.StoreRepository
	audit  *AuditRecorder
}

// NewStoreService constructs a StoreService instance.
func NewStoreService(stores port.StoreRepository, audit *AuditRecorder) *StoreService {
	return &StoreService{stores: stores, audit: audit}
}

// Create registers a new store.
func (s *StoreService) Create(ctx context.Context, actorID string, store domain.Store) (*domain.Store, error) {
	if strings.TrimSpace(store.Code) == "" || strings.TrimSpace(store.Name) == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrValidation)
	}

	now := time.Now().UTC()
	store.ID = uuid.NewString()
	store.Active = true
	store.CreatedAt = now
	store.UpdatedAt = now

	if err := s.stores.Create(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "store.create",
		Entity:   "store",
		EntityID: store.ID,
		NewValue: map[string]any{"code": store.Code, "name": store.Name},
	})

	return &store, nil
}

// Get retrieves a store by ID.
func (s *StoreService) Get(ctx context.Context, id string) (*domain.Store, error) {
	return s.stores.GetByID(ctx, id)
}

// GetByCode retrieves a store by business code.
func (s *StoreService) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	return s.stores.GetByCode(ctx, code)
}

// Update replaces mutable store attributes.
func (s *StoreService) Update(ctx context.Context, actorID string, store domain.Store) (*domain.Store, error) {
	current, err := s.stores.GetByID(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Update(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("update store: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "store.update",
		Entity:   "store",
		EntityID: store.ID,
		OldValue: map[string]any{"code": current.Code, "name": current.Name, "active": current.Active},
		NewValue: map[string]any{"code": store.Code, "name": store.Name, "active": store.Active},
	})

	updated, err := s.stores.GetByID(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a store.
func (s *StoreService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "store.delete",
		Entity:   "store",
		EntityID: id,
	})

	return nil
}

// List returns a page of stores.
func (s *StoreService) List(ctx context.Context, page port.Page) ([]domain.Store, error) {
	return s.stores.List(ctx, page)
}
