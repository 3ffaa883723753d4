package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into a 500 response carrying the correlation id,
// so a crashed budget operation stays traceable in the logs.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("Panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			response := gin.H{
				"error": gin.H{
					"code":    "INTERNAL_SERVER_ERROR",
					"message": "An internal server error occurred",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, response)
		}()

		c.Next()
	}
}
