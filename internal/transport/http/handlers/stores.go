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

// StoreHandler exposes store management endpoints.
type StoreHandler struct {
	stores *usecase.StoreService
	cfg    config.PaginationSettings
}

// NewStoreHandler builds a new store handler instance.
func NewStoreHandler(stores *usecase.StoreService, cfg config.PaginationSettings) *StoreHandler {
	return &StoreHandler{stores: stores, cfg: cfg}
}

// StoreRequest defines the create/update payload for a store.
type StoreRequest struct {
	Code         string   `json:"code" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	PostalCode   string   `json:"postal_code"`
	Country      string   `json:"country"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	ManagerID    string   `json:"manager_id"`
	OpeningHours []string `json:"opening_hours"`
	Area         float64  `json:"area"`
	Active       *bool    `json:"active"`
}

// StoreView describes the API representation of a store.
type StoreView struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	ManagerID    string    `json:"manager_id,omitempty"`
	OpeningHours []string  `json:"opening_hours,omitempty"`
	Area         float64   `json:"area,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newStoreView(store domain.Store) StoreView {
	return StoreView{
		ID:           store.ID,
		Code:         store.Code,
		Name:         store.Name,
		Address:      store.Address,
		City:         store.City,
		PostalCode:   store.PostalCode,
		Country:      store.Country,
		Phone:        store.Phone,
		Email:        store.Email,
		ManagerID:    store.ManagerID,
		OpeningHours: store.OpeningHours,
		Area:         store.Area,
		Active:       store.Active,
		CreatedAt:    store.CreatedAt,
		UpdatedAt:    store.UpdatedAt,
	}
}

func (r StoreRequest) toDomain() domain.Store {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return domain.Store{
		Code:         r.Code,
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Phone:        r.Phone,
		Email:        r.Email,
		ManagerID:    r.ManagerID,
		OpeningHours: r.OpeningHours,
		Area:         r.Area,
		Active:       active,
	}
}

// Create registers a new store.
func (h *StoreHandler) Create(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	store, err := h.stores.Create(c.Request.Context(), middleware.AuthenticatedUserID(c), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create store")
		return
	}

	c.JSON(http.StatusCreated, newStoreView(*store))
}

// Get returns one store by ID.
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.stores.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch store")
		return
	}

	c.JSON(http.StatusOK, newStoreView(*store))
}

// Update replaces the mutable attributes of a store.
func (h *StoreHandler) Update(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	store := req.toDomain()
	store.ID = c.Param("id")

	updated, err := h.stores.Update(c.Request.Context(), middleware.AuthenticatedUserID(c), store)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update store")
		return
	}

	c.JSON(http.StatusOK, newStoreView(*updated))
}

// Delete removes a store.
func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.stores.Delete(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete store")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "store deleted"})
}

// List returns stores ordered by code.
func (h *StoreHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	stores, err := h.stores.List(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list stores")
		return
	}

	views := make([]StoreView, 0, len(stores))
	for _, store := range stores {
		views = append(views, newStoreView(store))
	}

	c.JSON(http.StatusOK, ListResponse[StoreView]{Data: views, Page: page, Limit: limit})
}
