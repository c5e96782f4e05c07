package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "locmeta", "test", observability.ModeServe))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With(slog.String("op", "stats")).WithGroup("view").InfoContext(ctx, "rendered", slog.Int("commits", 2))

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "stats", record["op"])
	assert.Equal(t, "locmeta", record["service"])
	assert.Equal(t, "serve", record["mode"])
	assert.Equal(t, "test", record["env"])

	view, ok := record["view"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2.0, view["commits"], 0)
	assert.NotContains(t, view, "trace_id")
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.Mode = observability.ModeMCP

	observability.NewLogger(&buf, cfg).Info("no span")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)
	assert.Equal(t, "mcp", record["mode"])
	assert.NotContains(t, record, "env")
}

func TestInit_NoopWithoutEndpoint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogLevel = slog.LevelWarn

	providers, err := observability.InitWithWriter(cfg, &buf)
	require.NoError(t, err)

	providers.Logger.Info("hidden")
	providers.Logger.Warn("shown")

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("loud"))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("novalue"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, observability.ParseOTLPHeaders(" a=1 , b = 2"))
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for i := range rm.ScopeMetrics {
		for j := range rm.ScopeMetrics[i].Metrics {
			if rm.ScopeMetrics[i].Metrics[j].Name == name {
				return &rm.ScopeMetrics[i].Metrics[j]
			}
		}
	}

	return nil
}

func TestREDMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordRequest(ctx, "stats", observability.StatusOK, 10*time.Millisecond)
	red.RecordRequest(ctx, "stats", observability.StatusError, time.Millisecond)
	red.RecordView(ctx, "page", 3)
	red.TrackInflight(ctx, "stats")()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(ctx, &rm))

	total := findMetric(rm, "locmeta.requests.total")
	require.NotNil(t, total)

	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var n int64
	for _, dp := range sum.DataPoints {
		n += dp.Value
	}

	assert.Equal(t, int64(2), n)

	errs := findMetric(rm, "locmeta.errors.total")
	require.NotNil(t, errs)
	assert.NotNil(t, findMetric(rm, "locmeta.view.commits"))
	assert.NotNil(t, findMetric(rm, "locmeta.request.duration.seconds"))
}

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	reader := sdkmetric.NewManualReader()

	red, err := observability.NewREDMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			rw.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = io.WriteString(rw, "ok")
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), red, handler)

	for _, path := range []string{"/api/stats", "/fail"} {
		mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /api/stats", spans[0].Name)
	assert.Equal(t, "GET /fail", spans[1].Name)
	assert.Equal(t, "Error", spans[1].Status.Code.String())

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.NotNil(t, findMetric(rm, "locmeta.errors.total"))
}

func TestNewPrometheus(t *testing.T) {
	t.Parallel()

	prom, err := observability.NewPrometheus()
	require.NoError(t, err)

	red, err := observability.NewREDMetrics(prom.Meter())
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "page", observability.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	prom.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "locmeta_requests_total")
}
