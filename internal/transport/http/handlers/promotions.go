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

// PromotionHandler exposes discount rule endpoints.
type PromotionHandler struct {
	promotions *usecase.PromotionService
	cfg        config.PaginationSettings
}

// NewPromotionHandler builds a new promotion handler instance.
func NewPromotionHandler(promotions *usecase.PromotionService, cfg config.PaginationSettings) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, cfg: cfg}
}

// PromotionRequest defines the create/update payload for a promotion.
type PromotionRequest struct {
	Code             string    `json:"code" binding:"required"`
	Name             string    `json:"name" binding:"required"`
	Description      string    `json:"description"`
	Type             string    `json:"type" binding:"required"`
	DiscountValue    float64   `json:"discount_value"`
	MinQuantity      *int      `json:"min_quantity"`
	MaxQuantity      *int      `json:"max_quantity"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	ApplyToAllStores bool      `json:"apply_to_all_stores"`
	Active           *bool     `json:"active"`
}

// PromotionView describes the API representation of a promotion.
type PromotionView struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Type             string    `json:"type"`
	DiscountValue    float64   `json:"discount_value"`
	MinQuantity      *int      `json:"min_quantity,omitempty"`
	MaxQuantity      *int      `json:"max_quantity,omitempty"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	ApplyToAllStores bool      `json:"apply_to_all_stores"`
	Active           bool      `json:"active"`
	Current          bool      `json:"current"`
}

func newPromotionView(promotion domain.Promotion) PromotionView {
	return PromotionView{
		ID:               promotion.ID,
		Code:             promotion.Code,
		Name:             promotion.Name,
		Description:      promotion.Description,
		Type:             string(promotion.Type),
		DiscountValue:    promotion.DiscountValue,
		MinQuantity:      promotion.MinQuantity,
		MaxQuantity:      promotion.MaxQuantity,
		StartDate:        promotion.StartDate,
		EndDate:          promotion.EndDate,
		ApplyToAllStores: promotion.ApplyToAllStores,
		Active:           promotion.Active,
		Current:          promotion.CurrentAt(time.Now().UTC()),
	}
}

func (r PromotionRequest) toDomain() domain.Promotion {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return domain.Promotion{
		Code:             r.Code,
		Name:             r.Name,
		Description:      r.Description,
		Type:             domain.PromotionType(r.Type),
		DiscountValue:    r.DiscountValue,
		MinQuantity:      r.MinQuantity,
		MaxQuantity:      r.MaxQuantity,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		ApplyToAllStores: r.ApplyToAllStores,
		Active:           active,
	}
}

// Create registers a new promotion.
func (h *PromotionHandler) Create(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	promotion, err := h.promotions.Create(c.Request.Context(), middleware.AuthenticatedUserID(c), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create promotion")
		return
	}

	c.JSON(http.StatusCreated, newPromotionView(*promotion))
}

// Get returns one promotion by ID.
func (h *PromotionHandler) Get(c *gin.Context) {
	promotion, err := h.promotions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch promotion")
		return
	}

	c.JSON(http.StatusOK, newPromotionView(*promotion))
}

// GetByCode looks a promotion up by its checkout code.
func (h *PromotionHandler) GetByCode(c *gin.Context) {
	promotion, err := h.promotions.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch promotion")
		return
	}

	c.JSON(http.StatusOK, newPromotionView(*promotion))
}

// Update replaces the mutable attributes of a promotion.
func (h *PromotionHandler) Update(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	promotion := req.toDomain()
	promotion.ID = c.Param("id")

	updated, err := h.promotions.Update(c.Request.Context(), middleware.AuthenticatedUserID(c), promotion)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update promotion")
		return
	}

	c.JSON(http.StatusOK, newPromotionView(*updated))
}

// Delete removes a promotion.
func (h *PromotionHandler) Delete(c *gin.Context) {
	if err := h.promotions.Delete(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete promotion")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "promotion deleted"})
}

// List returns promotions ordered by start date.
func (h *PromotionHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	promotions, err := h.promotions.List(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list promotions")
		return
	}

	views := make([]PromotionView, 0, len(promotions))
	for _, promotion := range promotions {
		views = append(views, newPromotionView(promotion))
	}

	c.JSON(http.StatusOK, ListResponse[PromotionView]{Data: views, Page: page, Limit: limit})
}
