package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignRequest defines the payload initiating registration.
type SignRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	StoreID   string `json:"store_id"`
	RoleID    string `json:"role_id"`
	Password  string `json:"password" binding:"required,min=8"`
}

// SignInRequest defines the payload for the sign-in endpoint. Name matches
// username, email, or phone.
type SignInRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserView describes the API representation of an account.
type UserView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	StoreID   string     `json:"store_id,omitempty"`
	RoleID    string     `json:"role_id,omitempty"`
	Status    string     `json:"status"`
	Online    bool       `json:"online"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// TokenView carries the issued token pair.
type TokenView struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned on successful sign-up completion and sign-in.
type AuthResponse struct {
	User  UserView  `json:"user"`
	Token TokenView `json:"token"`
}

func newUserView(user domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		StoreID:   user.StoreID,
		RoleID:    user.RoleID,
		Status:    string(user.Status),
		Online:    user.Online,
		LastLogin: user.LastLogin,
	}
}

func newAuthResponse(user domain.User, pair usecase.TokenPair) AuthResponse {
	return AuthResponse{
		User:  newUserView(user),
		Token: TokenView{Access: pair.Access, Refresh: pair.Refresh},
	}
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ListResponse wraps paginated collections.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// pageFromQuery reads page/limit query params and clamps them against the
// configured bounds.
func pageFromQuery(c *gin.Context, cfg config.PaginationSettings) (port.Page, int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	bounded := usecase.NewPage(cfg, page, limit)
	if page < 1 {
		page = 1
	}

	return bounded, page, bounded.Limit
}
