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
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/security"
	"github.com/wynresh/sunem/internal/repository"
)

// CustomerService manages loyalty-enrolled shoppers and their programs.
type CustomerService struct {
	cfg       *config.AppConfig
	customers port.CustomerRepository
	loyalty   port.LoyaltyRepository
	audit     *AuditRecorder
}

// NewCustomerService constructs a CustomerService instance.
func NewCustomerService(
	cfg *config.AppConfig,
	customers port.CustomerRepository,
	loyalty port.LoyaltyRepository,
	audit *AuditRecorder,
) *CustomerService {
	return &CustomerService{cfg: cfg, customers: customers, loyalty: loyalty, audit: audit}
}

// Create enrolls a new customer.
func (s *CustomerService) Create(ctx context.Context, actorID string, customer domain.Customer) (*domain.Customer, error) {
	if strings.TrimSpace(customer.Code) == "" || strings.TrimSpace(customer.LastName) == "" {
		return nil, fmt.Errorf("%w: code and last_name are required", ErrValidation)
	}

	if customer.Phone != "" {
		normalized, err := security.NormalizePhone(customer.Phone, s.cfg.App.DefaultRegion)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		customer.Phone = normalized
	}

	now := time.Now().UTC()
	customer.ID = uuid.NewString()
	if customer.Segment == "" {
		customer.Segment = domain.CustomerRegular
	}
	if customer.JoinDate.IsZero() {
		customer.JoinDate = now
	}
	customer.Active = true
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "customer.create",
		Entity:   "customer",
		EntityID: customer.ID,
		NewValue: map[string]any{"code": customer.Code, "segment": customer.Segment},
	})

	return &customer, nil
}

// Get retrieves a customer by ID.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// GetByCode retrieves a customer by loyalty card code.
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*domain.Customer, error) {
	return s.customers.GetByCode(ctx, code)
}

// Update replaces mutable customer attributes.
func (s *CustomerService) Update(ctx context.Context, actorID string, customer domain.Customer) (*domain.Customer, error) {
	current, err := s.customers.GetByID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	if customer.Phone != "" && customer.Phone != current.Phone {
		normalized, err := security.NormalizePhone(customer.Phone, s.cfg.App.DefaultRegion)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		customer.Phone = normalized
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "customer.update",
		Entity:   "customer",
		EntityID: customer.ID,
		OldValue: map[string]any{"segment": current.Segment, "active": current.Active},
		NewValue: map[string]any{"segment": customer.Segment, "active": customer.Active},
	})

	return s.customers.GetByID(ctx, customer.ID)
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "customer.delete",
		Entity:   "customer",
		EntityID: id,
	})

	return nil
}

// List returns a page of customers.
func (s *CustomerService) List(ctx context.Context, page port.Page) ([]domain.Customer, error) {
	return s.customers.List(ctx, page)
}

// CreateProgram registers a new loyalty program.
func (s *CustomerService) CreateProgram(ctx context.Context, actorID string, program domain.LoyaltyProgram) (*domain.LoyaltyProgram, error) {
	if strings.TrimSpace(program.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if program.PointsPerDollar <= 0 {
		return nil, fmt.Errorf("%w: points_per_dollar must be positive", ErrValidation)
	}

	now := time.Now().UTC()
	program.ID = uuid.NewString()
	program.CreatedAt = now
	program.UpdatedAt = now

	if err := s.loyalty.CreateProgram(ctx, program); err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "loyalty_program.create",
		Entity:   "loyalty_program",
		EntityID: program.ID,
		NewValue: map[string]any{"name": program.Name, "points_per_dollar": program.PointsPerDollar},
	})

	return &program, nil
}

// GetProgram retrieves a loyalty program by ID.
func (s *CustomerService) GetProgram(ctx context.Context, id string) (*domain.LoyaltyProgram, error) {
	return s.loyalty.GetProgram(ctx, id)
}

// ListPrograms returns a page of loyalty programs.
func (s *CustomerService) ListPrograms(ctx context.Context, page port.Page) ([]domain.LoyaltyProgram, error) {
	return s.loyalty.ListPrograms(ctx, page)
}

// PointBalance returns a customer's current non-expired point total.
func (s *CustomerService) PointBalance(ctx context.Context, customerID string) (int, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return 0, err
	}
	return s.loyalty.PointBalance(ctx, customerID)
}

// ListPoints returns a customer's point ledger.
func (s *CustomerService) ListPoints(ctx context.Context, customerID string, page port.Page) ([]domain.LoyaltyPoint, error) {
	return s.loyalty.ListPoints(ctx, customerID, page)
}
