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

// PromotionService manages discount rules.
type PromotionService struct {
	promotions port.PromotionRepository
	audit      *AuditRecorder
}

// NewPromotionService constructs a PromotionService instance.
func NewPromotionService(promotions port.PromotionRepository, audit *AuditRecorder) *PromotionService {
	return &PromotionService{promotions: promotions, audit: audit}
}

// Create registers a new promotion.
func (s *PromotionService) Create(ctx context.Context, actorID string, promotion domain.Promotion) (*domain.Promotion, error) {
	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	promotion.ID = uuid.NewString()
	promotion.CreatedAt = now
	promotion.UpdatedAt = now

	if err := s.promotions.Create(ctx, promotion); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "promotion.create",
		Entity:   "promotion",
		EntityID: promotion.ID,
		NewValue: map[string]any{"code": promotion.Code, "type": promotion.Type, "value": promotion.DiscountValue},
	})

	return &promotion, nil
}

// Get retrieves a promotion by ID.
func (s *PromotionService) Get(ctx context.Context, id string) (*domain.Promotion, error) {
	return s.promotions.GetByID(ctx, id)
}

// GetByCode retrieves a promotion by its checkout code.
func (s *PromotionService) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	return s.promotions.GetByCode(ctx, code)
}

// Update replaces mutable promotion attributes.
func (s *PromotionService) Update(ctx context.Context, actorID string, promotion domain.Promotion) (*domain.Promotion, error) {
	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}

	current, err := s.promotions.GetByID(ctx, promotion.ID)
	if err != nil {
		return nil, err
	}

	if err := s.promotions.Update(ctx, promotion); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("update promotion: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "promotion.update",
		Entity:   "promotion",
		EntityID: promotion.ID,
		OldValue: map[string]any{"active": current.Active, "value": current.DiscountValue},
		NewValue: map[string]any{"active": promotion.Active, "value": promotion.DiscountValue},
	})

	return s.promotions.GetByID(ctx, promotion.ID)
}

// Delete removes a promotion.
func (s *PromotionService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.promotions.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "promotion.delete",
		Entity:   "promotion",
		EntityID: id,
	})

	return nil
}

// List returns a page of promotions.
func (s *PromotionService) List(ctx context.Context, page port.Page) ([]domain.Promotion, error) {
	return s.promotions.List(ctx, page)
}

func validatePromotion(promotion domain.Promotion) error {
	switch {
	case strings.TrimSpace(promotion.Code) == "":
		return fmt.Errorf("%w: code is required", ErrValidation)
	case promotion.DiscountValue <= 0:
		return fmt.Errorf("%w: discount value must be positive", ErrValidation)
	case promotion.EndDate.Before(promotion.StartDate):
		return fmt.Errorf("%w: end date precedes start date", ErrValidation)
	case promotion.Type == domain.PromotionPercentage && promotion.DiscountValue > 100:
		return fmt.Errorf("%w: percentage discount cannot exceed 100", ErrValidation)
	}
	return nil
}
