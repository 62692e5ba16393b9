package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "yookye/backend/internal/server"

// Telemetry wraps each request in a server span and records request count and
// duration through the global providers. With no providers configured both
// are no-ops.
func Telemetry(next http.Handler) http.Handler {
	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requests, _ := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of HTTP requests handled"))
	duration, _ := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		routed := r.WithContext(ctx)
		next.ServeHTTP(recorder, routed)

		// The mux fills in Pattern during routing; it keeps span names and
		// metric labels low-cardinality for per-id routes. Unmatched
		// requests keep the bare method.
		route := routed.Pattern
		if route != "" {
			span.SetName(route)
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", recorder.statusCode),
		)
		requests.Add(ctx, 1, attrs)
		duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", recorder.statusCode),
		)
	})
}
