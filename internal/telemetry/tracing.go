package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/AgusMolinaCode/Insider_Api"

// InitTracing instala un TracerProvider que escribe los spans en w.
// Devuelve la función para vaciar y cerrar el exporter al apagar el servidor.
func InitTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("crear exporter de trazas: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer usa el provider global; sin InitTracing es un no-op
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
