package routes

import (
	"log/slog"
	"net/http"

	"github.com/AgusMolinaCode/Insider_Api/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter arma el engine de Gin con CORS, request id, logs y recovery
func NewRouter(allowOrigins []string, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Configurar CORS; la UI solo hace GET
	config := cors.DefaultConfig()
	config.AllowOrigins = allowOrigins
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(config))

	router.Use(
		middleware.RequestID(),
		gin.Logger(),
		middleware.Recovery(logger),
		middleware.SecurityHeaders(),
	)
	return router
}

// RegisterRoutes registra los endpoints de la API. metricsHandler puede ser nil;
// si adminKey no está vacía, /metrics pide el header Admin-Key.
func RegisterRoutes(router *gin.Engine, h *middleware.MarketHandlers, metricsHandler http.Handler, adminKey string) {
	api := router.Group("/api")
	{
		api.GET("/high-low", h.GetHighLow)
		api.GET("/insider-trades", h.GetInsiderTrades)
		api.GET("/health", h.GetHealth)
	}

	if metricsHandler != nil {
		router.GET("/metrics", middleware.AdminAuth(adminKey), gin.WrapH(metricsHandler))
	}
}
