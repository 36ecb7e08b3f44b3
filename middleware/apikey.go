package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards the admin surface. The key lives in ADMIN_API_KEY;
// an unset key rejects everything rather than opening the surface up.
func ValidateAPIKey(c *gin.Context) {
	apiKey := c.GetHeader("X-API-KEY")
	expected := os.Getenv("ADMIN_API_KEY")
	if expected == "" || apiKey != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		c.Abort()
		return
	}
	c.Next()
}
