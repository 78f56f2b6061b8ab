package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware turns panics and unhandled c.Errors into a JSON 500.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[ERROR] %s panic recovered: %v", RequestIDFrom(c), err)
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			log.Printf("[ERROR] %s request error: %v", RequestIDFrom(c), c.Errors.Last().Err)
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			}
		}
	}
}
