package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "Admin-Key"

// AdminAuth protege rutas internas (por ejemplo /metrics) con una clave fija.
// Con key vacía la ruta queda abierta.
func AdminAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		adminKey := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(adminKey), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Acceso no autorizado"})
			c.Abort()
			return
		}
		c.Next()
	}
}
