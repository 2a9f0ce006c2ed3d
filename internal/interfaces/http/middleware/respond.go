package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
)

// RequestIDFrom returns the id the RequestID middleware assigned to c
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(logger.RequestIDGinKey)
}

// abortWithError stops the chain and writes the error envelope
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(&dto.ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(c),
	}))
}
