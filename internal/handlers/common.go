package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seoforge/backend/internal/services"
	"github.com/seoforge/backend/pkg/response"
)

// fail translates service-layer errors into HTTP responses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDenied), errors.Is(err, services.ErrWrongRecipient):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateInvite), errors.Is(err, services.ErrAlreadyMember):
		response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrExpired):
		response.Error(c, response.NewGone(err.Error()))
	case errors.Is(err, services.ErrQuotaExceeded):
		response.Error(c, response.NewTooManyRequests(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidRefresh):
		response.Unauthorized(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// pathID parses a numeric path parameter, replying 400 on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
