package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AgusMolinaCode/Insider_Api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	highLow      *models.HighLowResponse
	trades       *models.InsiderTradesResponse
	err          error
	healthErr    error
	lastCategory string
	panics       bool
}

func (f *fakeFetcher) HighLow(ctx context.Context, category string) (*models.HighLowResponse, error) {
	f.lastCategory = category
	if f.panics {
		panic("fila inesperada")
	}
	return f.highLow, f.err
}

func (f *fakeFetcher) InsiderTrades(ctx context.Context) (*models.InsiderTradesResponse, error) {
	if f.panics {
		panic("fila inesperada")
	}
	return f.trades, f.err
}

func (f *fakeFetcher) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeFetcher) StoreName() string { return "sql" }

func newTestRouter(f *fakeFetcher) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewMarketHandlers(f, logger)

	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(), Recovery(logger))
	r.GET("/api/high-low", h.GetHighLow)
	r.GET("/api/insider-trades", h.GetInsiderTrades)
	r.GET("/api/health", h.GetHealth)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func exampleHighLow() *models.HighLowResponse {
	return &models.HighLowResponse{
		Metadata: []models.Metadata{{LastUpdated: null.StringFrom("2024-01-01T00:00:00Z")}},
		OtherData: []models.StockMover{{
			StockName:     null.StringFrom("AAPL"),
			Price:         null.FloatFrom(150.25),
			ChangeAmount:  null.FloatFrom(2.5),
			ChangePercent: null.FloatFrom(1.7),
			Volume:        null.IntFrom(1000000),
			Category:      null.StringFrom("gainer"),
			Date:          null.StringFrom("2024-01-02"),
		}},
	}
}

func TestGetHighLow_OK(t *testing.T) {
	f := &fakeFetcher{highLow: exampleHighLow()}
	r := newTestRouter(f)

	w := get(r, "/api/high-low?category=gainer")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gainer", f.lastCategory)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{
		"metadata":[{"lastUpdated":"2024-01-01T00:00:00Z"}],
		"otherData":[{"stockName":"AAPL","price":150.25,"changeAmount":2.5,"changePercent":1.7,"volume":1000000,"category":"gainer","date":"2024-01-02"}]
	}`, w.Body.String())
}

func TestGetHighLow_Failure(t *testing.T) {
	r := newTestRouter(&fakeFetcher{err: errors.New("connection refused")})

	w := get(r, "/api/high-low")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"Failed to fetch data"}`, w.Body.String())
}

func TestGetInsiderTrades_OK(t *testing.T) {
	f := &fakeFetcher{trades: &models.InsiderTradesResponse{Data: []models.InsiderTransaction{{
		Name:            null.StringFrom("Jane Doe"),
		Company:         null.StringFrom("ACME"),
		Shares:          null.FloatFrom(1000),
		TransactionType: null.StringFrom("A"),
		Date:            null.StringFrom("Mar 05, 2024"),
		Price:           null.FloatFrom(50),
		Value:           null.StringFrom("$50,000.00"),
	}}}}
	r := newTestRouter(f)

	w := get(r, "/api/insider-trades")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"name":"Jane Doe","title":null,"type":null,"company":"ACME","shares":1000,"transactionType":"A","date":"Mar 05, 2024","price":50,"value":"$50,000.00"}]}`, w.Body.String())
}

func TestGetInsiderTrades_Failure(t *testing.T) {
	r := newTestRouter(&fakeFetcher{err: errors.New("timeout")})

	w := get(r, "/api/insider-trades")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"Failed to fetch insider trades"}`, w.Body.String())
}

func TestGetHighLow_RepeatedCallsAreIdentical(t *testing.T) {
	r := newTestRouter(&fakeFetcher{highLow: exampleHighLow()})

	first := get(r, "/api/high-low").Body.Bytes()
	second := get(r, "/api/high-low").Body.Bytes()

	assert.Equal(t, first, second)
}

func TestGetHealth(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestRouter(f)

	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","store":"sql"}`, w.Body.String())

	f.healthErr = errors.New("down")
	w = get(r, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","store":"sql"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&fakeFetcher{})

	w := get(r, "/api/health")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestSecurityHeaders(t *testing.T) {
	w := get(newTestRouter(&fakeFetcher{}), "/api/health")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRecovery(t *testing.T) {
	w := get(newTestRouter(&fakeFetcher{}), "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestRecovery_DataEndpointsKeepTheirMessage(t *testing.T) {
	r := newTestRouter(&fakeFetcher{panics: true})

	w := get(r, "/api/high-low")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"Failed to fetch data"}`, w.Body.String())

	w = get(r, "/api/insider-trades")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"Failed to fetch insider trades"}`, w.Body.String())
}
