package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AgusMolinaCode/Insider_Api/internal/models"
	"github.com/AgusMolinaCode/Insider_Api/internal/normalizer"
	"github.com/AgusMolinaCode/Insider_Api/internal/repository"
	"github.com/AgusMolinaCode/Insider_Api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	EndpointHighLow       = "high-low"
	EndpointInsiderTrades = "insider-trades"

	// KindNormalize marca una fila que llegó del store pero no se pudo transformar
	KindNormalize = "normalize"
)

type Options struct {
	QueryTimeout time.Duration
	InsiderLimit int
	Metrics      *telemetry.Metrics
}

// MarketService consulta el store, normaliza y arma las respuestas de la API.
// No guarda estado entre llamadas: cada request vuelve a consultar el store.
type MarketService struct {
	store   repository.Store
	opts    Options
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

func NewMarketService(store repository.Store, opts Options) *MarketService {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	if opts.InsiderLimit <= 0 {
		opts.InsiderLimit = 200
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics(nil)
	}

	return &MarketService{
		store:   store,
		opts:    opts,
		metrics: metrics,
		tracer:  telemetry.Tracer(),
	}
}

func (s *MarketService) StoreName() string {
	return s.store.Name()
}

// HighLow lee la marca de actualización y los movers. Si falla cualquiera de las
// dos consultas no se devuelve nada parcial.
func (s *MarketService) HighLow(ctx context.Context, category string) (*models.HighLowResponse, error) {
	ctx, span := s.tracer.Start(ctx, "MarketService.HighLow")
	defer span.End()

	var metadataRows []models.MetadataRow
	err := s.query(ctx, "metadata", func(ctx context.Context) (err error) {
		metadataRows, err = s.store.GetMetadata(ctx)
		return err
	})
	if err != nil {
		return nil, s.fail(span, EndpointHighLow, err)
	}

	var moverRows []models.MoverRow
	err = s.query(ctx, "movers", func(ctx context.Context) (err error) {
		moverRows, err = s.store.GetMovers(ctx)
		return err
	})
	if err != nil {
		return nil, s.fail(span, EndpointHighLow, err)
	}

	movers := FilterByCategory(normalizer.NormalizeMovers(moverRows), category)
	span.SetAttributes(attribute.Int("movers.count", len(movers)))

	return &models.HighLowResponse{
		Metadata:  normalizer.NormalizeMetadata(metadataRows),
		OtherData: movers,
	}, nil
}

func (s *MarketService) InsiderTrades(ctx context.Context) (*models.InsiderTradesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "MarketService.InsiderTrades")
	defer span.End()

	var rows []models.InsiderRow
	err := s.query(ctx, "insider_trades", func(ctx context.Context) (err error) {
		rows, err = s.store.GetInsiderTrades(ctx, s.opts.InsiderLimit)
		return err
	})
	if err != nil {
		return nil, s.fail(span, EndpointInsiderTrades, err)
	}

	trades, err := normalizer.NormalizeInsiderTrades(rows)
	if err != nil {
		return nil, s.fail(span, EndpointInsiderTrades, err)
	}
	span.SetAttributes(attribute.Int("trades.count", len(trades)))

	return &models.InsiderTradesResponse{Data: trades}, nil
}

func (s *MarketService) Health(ctx context.Context) error {
	return s.query(ctx, "ping", s.store.Ping)
}

// query ejecuta una llamada al store con su propio timeout, span y métrica
func (s *MarketService) query(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store."+name,
		trace.WithAttributes(attribute.String("store.client", s.store.Name())))
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	s.metrics.ObserveQuery(name, s.store.Name(), started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *MarketService) fail(span trace.Span, endpoint string, err error) error {
	kind := KindOf(err)
	s.metrics.CountFetchError(endpoint, kind)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	return fmt.Errorf("%s: %w", endpoint, err)
}

// KindOf devuelve el tipo interno de la falla, para logs y métricas
func KindOf(err error) string {
	var serr *repository.StoreError
	if errors.As(err, &serr) {
		return string(serr.Kind)
	}
	var nerr *normalizer.Error
	if errors.As(err, &nerr) {
		return KindNormalize
	}
	return "unknown"
}

// FilterByCategory deja solo los movers de la categoría pedida. Vacío o "all" no filtra.
func FilterByCategory(movers []models.StockMover, category string) []models.StockMover {
	category = strings.TrimSpace(category)
	if category == "" || models.CategoryAll.Matches(category) {
		return movers
	}

	want := models.Category(strings.ToLower(category))
	out := make([]models.StockMover, 0, len(movers))
	for _, m := range movers {
		if m.Category.Valid && want.Matches(m.Category.String) {
			out = append(out, m)
		}
	}
	return out
}
