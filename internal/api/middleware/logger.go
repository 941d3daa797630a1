package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request with status and duration.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[API] %s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
