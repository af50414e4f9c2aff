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

// CatalogService manages categories and products.
type CatalogService struct {
	categories port.CategoryRepository
	products   port.ProductRepository
	audit      *AuditRecorder
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(categories port.CategoryRepository, products port.ProductRepository, audit *AuditRecorder) *CatalogService {
	return &CatalogService{categories: categories, products: products, audit: audit}
}

// CreateCategory registers a new category, optionally under a parent node.
func (s *CatalogService) CreateCategory(ctx context.Context, actorID string, category domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if category.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *category.ParentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category does not exist", ErrValidation)
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "category.create",
		Entity:   "category",
		EntityID: category.ID,
		NewValue: map[string]any{"name": category.Name},
	})

	return &category, nil
}

// GetCategory retrieves a category by ID.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// UpdateCategory replaces mutable category attributes.
func (s *CatalogService) UpdateCategory(ctx context.Context, actorID string, category domain.Category) (*domain.Category, error) {
	current, err := s.categories.GetByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "category.update",
		Entity:   "category",
		EntityID: category.ID,
		OldValue: map[string]any{"name": current.Name},
		NewValue: map[string]any{"name": category.Name},
	})

	return s.categories.GetByID(ctx, category.ID)
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, actorID, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "category.delete",
		Entity:   "category",
		EntityID: id,
	})

	return nil
}

// ListCategories returns a page of categories.
func (s *CatalogService) ListCategories(ctx context.Context, page port.Page) ([]domain.Category, error) {
	return s.categories.List(ctx, page)
}

// CreateProduct registers a new catalog product.
func (s *CatalogService) CreateProduct(ctx context.Context, actorID string, product domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if product.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: category does not exist", ErrValidation)
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	product.ID = uuid.NewString()
	if product.Status == "" {
		product.Status = domain.ProductStatusAvailable
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "product.create",
		Entity:   "product",
		EntityID: product.ID,
		NewValue: map[string]any{"ean_code": product.EANCode, "name": product.Name, "price": product.Price},
	})

	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetProductByEAN retrieves a product by barcode, the scanner path at the register.
func (s *CatalogService) GetProductByEAN(ctx context.Context, eanCode string) (*domain.Product, error) {
	return s.products.GetByEAN(ctx, eanCode)
}

// UpdateProduct replaces mutable product attributes.
func (s *CatalogService) UpdateProduct(ctx context.Context, actorID string, product domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	current, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "product.update",
		Entity:   "product",
		EntityID: product.ID,
		OldValue: map[string]any{"name": current.Name, "price": current.Price, "status": current.Status},
		NewValue: map[string]any{"name": product.Name, "price": product.Price, "status": product.Status},
	})

	return s.products.GetByID(ctx, product.ID)
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, actorID, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditLog{
		UserID:   actorID,
		Action:   "product.delete",
		Entity:   "product",
		EntityID: id,
	})

	return nil
}

// ListProducts returns a page of products, optionally filtered by category.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID string, page port.Page) ([]domain.Product, error) {
	if categoryID != "" {
		return s.products.ListByCategory(ctx, categoryID, page)
	}
	return s.products.List(ctx, page)
}

func validateProduct(product domain.Product) error {
	switch {
	case strings.TrimSpace(product.EANCode) == "":
		return fmt.Errorf("%w: ean_code is required", ErrValidation)
	case strings.TrimSpace(product.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case product.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}
