package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/transport/http/middleware"
	"github.com/wynresh/sunem/internal/usecase"
)

// UserHandler exposes account administration endpoints.
type UserHandler struct {
	users *usecase.UserService
	cfg   config.PaginationSettings
}

// NewUserHandler builds a new user handler instance.
func NewUserHandler(users *usecase.UserService, cfg config.PaginationSettings) *UserHandler {
	return &UserHandler{users: users, cfg: cfg}
}

// UpdateUserRequest defines the mutable account attributes.
type UpdateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	StoreID   string `json:"store_id"`
	RoleID    string `json:"role_id"`
	Status    string `json:"status"`
}

// RoleRequest defines the payload creating a role.
type RoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
	Description string   `json:"description"`
}

// RoleView describes the API representation of a role.
type RoleView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
	Description string   `json:"description,omitempty"`
}

func newRoleView(role domain.Role) RoleView {
	return RoleView{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: role.Permissions,
		Description: role.Description,
	}
}

// Get returns one account by ID.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, newUserView(*user))
}

// Update replaces the mutable attributes of an account.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	user := domain.User{
		ID:        c.Param("id"),
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StoreID:   req.StoreID,
		RoleID:    req.RoleID,
		Status:    domain.UserStatus(req.Status),
	}

	updated, err := h.users.Update(c.Request.Context(), middleware.AuthenticatedUserID(c), user)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, newUserView(*updated))
}

// Delete removes an account.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.AuthenticatedUserID(c), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

// List returns accounts ordered by creation time.
func (h *UserHandler) List(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	users, err := h.users.List(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list users")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, newUserView(user))
	}

	c.JSON(http.StatusOK, ListResponse[UserView]{Data: views, Page: page, Limit: limit})
}

// CreateRole registers a named permission profile.
func (h *UserHandler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	role, err := h.users.CreateRole(c.Request.Context(), middleware.AuthenticatedUserID(c), domain.Role{
		Name:        req.Name,
		Permissions: req.Permissions,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateCode, Status: http.StatusConflict, Message: "role name already in use"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, newRoleView(*role))
}

// GetRole returns one role by ID.
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.users.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to fetch role")
		return
	}

	c.JSON(http.StatusOK, newRoleView(*role))
}

// ListRoles returns roles ordered by name.
func (h *UserHandler) ListRoles(c *gin.Context) {
	bounded, page, limit := pageFromQuery(c, h.cfg)

	roles, err := h.users.ListRoles(c.Request.Context(), bounded)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list roles")
		return
	}

	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, newRoleView(role))
	}

	c.JSON(http.StatusOK, ListResponse[RoleView]{Data: views, Page: page, Limit: limit})
}
