package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses. EmergencyContact is
// always populated so no failure path leaves the caller without a manual fallback.
type ErrorResponse struct {
	Message          string `json:"message"`
	Details          string `json:"details,omitempty"`
	EmergencyContact string `json:"emergencyContact"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message:          "Internal Server Error",
					Details:          "An unexpected error occurred. Please try again later.",
					EmergencyContact: EmergencyPhone(),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{
		Message:          message,
		Details:          details,
		EmergencyContact: EmergencyPhone(),
	})
}
