package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/AgusMolinaCode/Insider_Api/internal/models"
	"github.com/AgusMolinaCode/Insider_Api/internal/services"
	"github.com/gin-gonic/gin"
)

// Mensajes fijos del contrato de error; no dependen del tipo de falla
const (
	ErrFetchData          = "Failed to fetch data"
	ErrFetchInsiderTrades = "Failed to fetch insider trades"
)

// MarketFetcher es lo que los handlers necesitan del servicio
type MarketFetcher interface {
	HighLow(ctx context.Context, category string) (*models.HighLowResponse, error)
	InsiderTrades(ctx context.Context) (*models.InsiderTradesResponse, error)
	Health(ctx context.Context) error
	StoreName() string
}

type MarketHandlers struct {
	service MarketFetcher
	logger  *slog.Logger
}

func NewMarketHandlers(service MarketFetcher, logger *slog.Logger) *MarketHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketHandlers{service: service, logger: logger}
}

// GetHighLow maneja GET /api/high-low
func (h *MarketHandlers) GetHighLow(c *gin.Context) {
	data, err := h.service.HighLow(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("Error al obtener high-low",
			"error", err,
			"kind", services.KindOf(err),
			"request_id", GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrFetchData})
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetInsiderTrades maneja GET /api/insider-trades
func (h *MarketHandlers) GetInsiderTrades(c *gin.Context) {
	data, err := h.service.InsiderTrades(c.Request.Context())
	if err != nil {
		h.logger.Error("Error al obtener insider trades",
			"error", err,
			"kind", services.KindOf(err),
			"request_id", GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrFetchInsiderTrades})
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetHealth maneja GET /api/health
func (h *MarketHandlers) GetHealth(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		h.logger.Warn("El store no responde", "error", err, "request_id", GetRequestID(c))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": h.service.StoreName()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": h.service.StoreName()})
}
