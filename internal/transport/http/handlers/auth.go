package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/usecase"
)

// AuthHandler exposes registration and sign-in endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler builds a new auth handler instance.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Sign initiates registration by mailing a verification link. No account is
// persisted until the link is followed.
func (h *AuthHandler) Sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	err := h.auth.Sign(c.Request.Context(), domain.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StoreID:   req.StoreID,
		RoleID:    req.RoleID,
		Password:  req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateUser, Status: http.StatusBadRequest, Message: "user already exists"},
		}, http.StatusInternalServerError, "failed to initiate registration")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "verification email sent"})
}

// CompleteSignUp verifies the emailed token, creates the account, and signs
// the user in.
func (h *AuthHandler) CompleteSignUp(c *gin.Context) {
	token := c.Param("token")

	user, pair, err := h.auth.CompleteSignUp(c.Request.Context(), token)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidVerificationToken, Status: http.StatusBadRequest, Message: "invalid or expired verification token"},
			{Err: usecase.ErrDuplicateUser, Status: http.StatusBadRequest, Message: "user already exists"},
		}, http.StatusInternalServerError, "failed to complete registration")
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(*user, pair))
}

// SignIn authenticates by username, email, or phone plus password.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	user, pair, err := h.auth.SignIn(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "user not found"},
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "failed to sign in")
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(*user, pair))
}

// NotImplemented backs the declared endpoints whose flows are not built yet.
func (h *AuthHandler) NotImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, NewErrorResponse(c, "not implemented"))
}
