// api/middleware/secret.go
package middleware

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// DashboardSecret guards operator endpoints with the shared query secret.
// A missing DASHBOARD_SECRET is a server misconfiguration (500), never
// silently defaulted; a wrong or absent secret parameter is a plain 401.
func DashboardSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := os.Getenv("DASHBOARD_SECRET")
		if configured == "" {
			log.Println("DashboardSecret: DASHBOARD_SECRET environment variable not set")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Dashboard not configured"})
			return
		}

		if c.Query("secret") != configured {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Next()
	}
}
