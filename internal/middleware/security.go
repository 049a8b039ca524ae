package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders agrega los headers básicos; la API solo devuelve JSON
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

const ErrInternal = "Internal server error"

// Mensaje de 500 fijo de cada endpoint de datos
var routeErrors = map[string]string{
	"/api/high-low":       ErrFetchData,
	"/api/insider-trades": ErrFetchInsiderTrades,
}

// Recovery responde con el mismo sobre de error que el resto de la API. En los
// endpoints de datos usa el mensaje de ese endpoint.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic en el handler", "panic", recovered, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		msg, ok := routeErrors[c.FullPath()]
		if !ok {
			msg = ErrInternal
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
	})
}
