package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finance-tracker/internal/service"
)

// writeServiceError traduce los errores de servicio a respuestas HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		logger.Warn(op+" rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect email or password"})
	case errors.Is(err, service.ErrJWTInvalid), errors.Is(err, service.ErrJWTExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrExpenseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Warn("invalid "+op+" request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
