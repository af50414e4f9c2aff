package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wynresh/sunem/internal/repository"
	"github.com/wynresh/sunem/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// commonCases covers the sentinels shared by most endpoints.
var commonCases = []ErrorCase{
	{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "not found"},
	{Err: usecase.ErrDuplicateCode, Status: http.StatusConflict, Message: "code already in use"},
	{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "validation failed"},
	{Err: usecase.ErrNotImplemented, Status: http.StatusNotImplemented, Message: "not implemented"},
}

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range append(cases, commonCases...) {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			message := cs.Message
			if errors.Is(err, usecase.ErrValidation) {
				message = err.Error()
			}
			c.JSON(cs.Status, NewErrorResponse(c, message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
