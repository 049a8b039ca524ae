// Package telemetry agrupa las métricas de Prometheus y el tracing de OpenTelemetry.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "insider_api"

type Metrics struct {
	queryDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
}

// NewMetrics registra los colectores en reg. Con reg nil los colectores existen
// pero no se exponen, que es lo que se usa cuando las métricas están desactivadas.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Duración de las consultas al store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query", "client", "status"}),
		fetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Respuestas 500 por endpoint y tipo de falla.",
		}, []string{"endpoint", "kind"}),
	}
}

func (m *Metrics) ObserveQuery(query, client string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.queryDuration.WithLabelValues(query, client, status).Observe(time.Since(started).Seconds())
}

func (m *Metrics) CountFetchError(endpoint, kind string) {
	m.fetchErrors.WithLabelValues(endpoint, kind).Inc()
}
