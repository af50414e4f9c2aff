package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/transport/http/middleware"
	"github.com/wynresh/sunem/internal/usecase"
)

// CatalogHandler exposes category and product endpoints.
type CatalogHandler struct {
	catalog *usecase.CatalogService
	cfg     config.PaginationSettings
}

// NewCatalogHandler builds a new catalog handler instance.
func NewCatalogHandler(catalog *usecase.CatalogService, cfg config.PaginationSettings) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cfg: cfg}
}

// CategoryRequest defines the create/update payload for a category.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// CategoryView describes the API representation of a category.
type CategoryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryView(category domain.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ProductRequest defines the create/update payload for a product.
type ProductRequest struct {
	EANCode      string     `json:"ean_code" binding:"required"`
	InternalCode string     `json:"internal_code"`
	Name         string     `json:"name" binding:"required"`
	Brand        string     `json:"brand"`
	Description  string     `json:"description"`
	Price        float64    `json:"price"`
	Unit         string     `json:"unit"`
	Weight       *float64   `json:"weight"`
	Volume       *float64   `json:"volume"`
	Allergens    []string   `json:"allergens"`
	Status       string     `json:"status"`
	Perishable   bool       `json:"perishable"`
	ExpiresAt    *time.Time `json:"expires_at"`
	CategoryID   string     `json:"category_id" binding:"required"`
}

// ProductView describes the API representation of a product.
type ProductView struct {
	ID           string     `json:"id"`
	EANCode      string     `json:"ean_code"`
	InternalCode string     `json:"internal_code,omitempty"`
	Name         string     `json:"name"`
	Brand        string     `json:"brand,omitempty"`
	Description  string     `json:"description,omitempty"`
	Price        float64    `json:"price"`
	Unit         string     `json:"unit"`
	Weight       *float64   `json:"weight,omitempty"`
	Volume       *float64   `json:"volume,omitempty"`
	Allergens    []string   `json:"allergens,omitempty"`
	Status       string     `json:"status"`
	Perishable   bool       `json:"perishable"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CategoryID   string     `json:"category_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func newProductView(product domain.Product) ProductView {
	return ProductView{
		ID:           product.ID,
		EANCode:      product.EANCode,
		InternalCode: product.InternalCode,
		Name:         product.Name,
		Brand:        product.Brand,
		Description:  product.Description,
		Price:        product.Price,
		Unit:         string(product.Unit),
		Weight:       product.Weight,
		Volume:       product.Volume,
		Allergens:    product.Allergens,
		Status:       string(product.Status),
		Perishable:   product.Perishable,
		ExpiresAt:    product.ExpiresAt,
		CategoryID:   product.CategoryID,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

func (r ProductRequest) toDomain() domain.Product {
	return domain.Product{
		EANCode:      r.EANCode,
		InternalCode: r.InternalCode,
		Name:         r.Name,
		Brand:        r.Brand,
		Description:  r.Description,
		Price:        r.Price,
		Unit:         domain.ProductUnit(r.Unit),
		Weight:       r.Weight,
		Volume:       r.Volume,
		Allergens:    r.Allergens,
		Status:       domain.ProductStatus(r.Status),
		Perishable:   r.Perishable,
		ExpiresAt:    r.ExpiresAt,
		CategoryID:   r.CategoryID,
	}
}

// CreateCategory adds a node to the classification tree.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, newCategoryView(*category))
}

// GetCategory returns one category by ID.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, newCategoryView(*category))
}

// UpdateCategory replaces the mutable attributes of a category.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.Category{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, newCategoryView(*category))
}

// DeleteCategory removes a category.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}

// ListCategories returns categories ordered by name.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	categories, err := h.catalog.ListCategories(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list categories")
		return
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, newCategoryView(category))
	}

	c.JSON(http.StatusOK, ListResponse[CategoryView]{Data: views, Page: page, Limit: limit})
}

// CreateProduct adds a product to the catalog.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), middleware.AuthenticatedUserID(c), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, newProductView(*product))
}

// GetProduct returns one product by ID.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, newProductView(*product))
}

// GetProductByEAN looks a product up by its scanned barcode.
func (h *CatalogHandler) GetProductByEAN(c *gin.Context) {
	product, err := h.catalog.GetProductByEAN(c.Request.Context(), c.Param("ean"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, newProductView(*product))
}

// UpdateProduct replaces the mutable attributes of a product.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	product := req.toDomain()
	product.ID = c.Param("id")

	updated, err := h.catalog.UpdateProduct(c.Request.Context(), middleware.AuthenticatedUserID(c), product)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, newProductView(*updated))
}

// DeleteProduct removes a product from the catalog.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}

// ListProducts returns products, optionally filtered by category.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category_id"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list products")
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}

	c.JSON(http.StatusOK, ListResponse[ProductView]{Data: views, Page: page, Limit: limit})
}
