package middleware

import (
	"net/http"

	"ratescope/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panicking handlers into the same error envelope the
// calculation endpoints use, so clients parse one shape for every failure.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "unexpected failure during calculation"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: msg,
			},
		})
	})
}
