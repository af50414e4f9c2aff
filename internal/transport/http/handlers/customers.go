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

// CustomerHandler exposes customer and loyalty endpoints.
type CustomerHandler struct {
	customers *usecase.CustomerService
	cfg       config.PaginationSettings
}

// NewCustomerHandler builds a new customer handler instance.
func NewCustomerHandler(customers *usecase.CustomerService, cfg config.PaginationSettings) *CustomerHandler {
	return &CustomerHandler{customers: customers, cfg: cfg}
}

// CustomerRequest defines the create/update payload for a customer.
type CustomerRequest struct {
	Code      string `json:"code" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Segment   string `json:"segment"`
	Active    *bool  `json:"active"`
}

// CustomerView describes the API representation of a customer.
type CustomerView struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	JoinDate         time.Time  `json:"join_date"`
	Segment          string     `json:"segment"`
	TotalSpent       float64    `json:"total_spent"`
	LastPurchaseDate *time.Time `json:"last_purchase_date,omitempty"`
	Active           bool       `json:"active"`
}

func newCustomerView(customer domain.Customer) CustomerView {
	return CustomerView{
		ID:               customer.ID,
		Code:             customer.Code,
		FirstName:        customer.FirstName,
		LastName:         customer.LastName,
		Email:            customer.Email,
		Phone:            customer.Phone,
		JoinDate:         customer.JoinDate,
		Segment:          string(customer.Segment),
		TotalSpent:       customer.TotalSpent,
		LastPurchaseDate: customer.LastPurchaseDate,
		Active:           customer.Active,
	}
}

func (r CustomerRequest) toDomain() domain.Customer {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return domain.Customer{
		Code:      r.Code,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Segment:   domain.CustomerSegment(r.Segment),
		Active:    active,
	}
}

// LoyaltyProgramRequest defines the payload creating a loyalty program.
type LoyaltyProgramRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	PointsPerDollar   float64 `json:"points_per_dollar" binding:"required"`
	MinPointsToRedeem int     `json:"min_points_to_redeem"`
	ExpirationDays    int     `json:"expiration_days"`
	Active            *bool   `json:"active"`
}

// LoyaltyProgramView describes the API representation of a loyalty program.
type LoyaltyProgramView struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	PointsPerDollar   float64 `json:"points_per_dollar"`
	MinPointsToRedeem int     `json:"min_points_to_redeem"`
	ExpirationDays    int     `json:"expiration_days"`
	Active            bool    `json:"active"`
}

func newLoyaltyProgramView(program domain.LoyaltyProgram) LoyaltyProgramView {
	return LoyaltyProgramView{
		ID:                program.ID,
		Name:              program.Name,
		Description:       program.Description,
		PointsPerDollar:   program.PointsPerDollar,
		MinPointsToRedeem: program.MinPointsToRedeem,
		ExpirationDays:    program.ExpirationDays,
		Active:            program.Active,
	}
}

// LoyaltyPointView describes one entry on a customer's point balance.
type LoyaltyPointView struct {
	ID            string     `json:"id"`
	ProgramID     string     `json:"program_id"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	Points        int        `json:"points"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PointBalanceResponse carries the live point balance of a customer.
type PointBalanceResponse struct {
	CustomerID string `json:"customer_id"`
	Balance    int    `json:"balance"`
}

// Create registers a new customer.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), middleware.AuthenticatedUserID(c), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, newCustomerView(*customer))
}

// Get returns one customer by ID.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch customer")
		return
	}

	c.JSON(http.StatusOK, newCustomerView(*customer))
}

// GetByCode looks a customer up by their loyalty card code.
func (h *CustomerHandler) GetByCode(c *gin.Context) {
	customer, err := h.customers.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch customer")
		return
	}

	c.JSON(http.StatusOK, newCustomerView(*customer))
}

// Update replaces the mutable attributes of a customer.
func (h *CustomerHandler) Update(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	customer := req.toDomain()
	customer.ID = c.Param("id")

	updated, err := h.customers.Update(c.Request.Context(), middleware.AuthenticatedUserID(c), customer)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update customer")
		return
	}

	c.JSON(http.StatusOK, newCustomerView(*updated))
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "customer deleted"})
}

// List returns customers ordered by code.
func (h *CustomerHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	customers, err := h.customers.List(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list customers")
		return
	}

	views := make([]CustomerView, 0, len(customers))
	for _, customer := range customers {
		views = append(views, newCustomerView(customer))
	}

	c.JSON(http.StatusOK, ListResponse[CustomerView]{Data: views, Page: page, Limit: limit})
}

// CreateProgram registers a new loyalty program.
func (h *CustomerHandler) CreateProgram(c *gin.Context) {
	var req LoyaltyProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	program, err := h.customers.CreateProgram(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.LoyaltyProgram{
		Name:              req.Name,
		Description:       req.Description,
		PointsPerDollar:   req.PointsPerDollar,
		MinPointsToRedeem: req.MinPointsToRedeem,
		ExpirationDays:    req.ExpirationDays,
		Active:            active,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create loyalty program")
		return
	}

	c.JSON(http.StatusCreated, newLoyaltyProgramView(*program))
}

// GetProgram returns one loyalty program by ID.
func (h *CustomerHandler) GetProgram(c *gin.Context) {
	program, err := h.customers.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch loyalty program")
		return
	}

	c.JSON(http.StatusOK, newLoyaltyProgramView(*program))
}

// ListPrograms returns loyalty programs, newest first.
func (h *CustomerHandler) ListPrograms(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	programs, err := h.customers.ListPrograms(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list loyalty programs")
		return
	}

	views := make([]LoyaltyProgramView, 0, len(programs))
	for _, program := range programs {
		views = append(views, newLoyaltyProgramView(program))
	}

	c.JSON(http.StatusOK, ListResponse[LoyaltyProgramView]{Data: views, Page: page, Limit: limit})
}

// PointBalance returns the unexpired point balance of a customer.
func (h *CustomerHandler) PointBalance(c *gin.Context) {
	customerID := c.Param("id")

	balance, err := h.customers.PointBalance(c.Request.Context(), customerID)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch point balance")
		return
	}

	c.JSON(http.StatusOK, PointBalanceResponse{CustomerID: customerID, Balance: balance})
}

// ListPoints returns the point ledger of a customer.
func (h *CustomerHandler) ListPoints(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	points, err := h.customers.ListPoints(c.Request.Context(), c.Param("id"), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list loyalty points")
		return
	}

	views := make([]LoyaltyPointView, 0, len(points))
	for _, point := range points {
		views = append(views, LoyaltyPointView{
			ID:            point.ID,
			ProgramID:     point.ProgramID,
			TransactionID: point.TransactionID,
			Points:        point.Points,
			ExpiresAt:     point.ExpiresAt,
			CreatedAt:     point.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, ListResponse[LoyaltyPointView]{Data: views, Page: page, Limit: limit})
}
