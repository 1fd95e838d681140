package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func tracedRouter(t *testing.T) (http.Handler, *tracetest.SpanRecorder, *observer.ObservedLogs) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	core, logs := observer.New(zapcore.DebugLevel)
	router := chi.NewRouter()
	router.Use(TraceMiddleware(tp), InjectLogger(zap.New(core)), RequestLogger)
	router.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router, recorder, logs
}

func TestTraceMiddlewareStartsServerSpan(t *testing.T) {
	t.Parallel()

	router, recorder, logs := tracedRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/nebula-mx", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, "GET /products/{id}", span.Name())
	require.Equal(t, trace.SpanKindServer, span.SpanKind())

	traceID := span.SpanContext().TraceID().String()
	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	require.Equal(t, traceID, done[0].ContextMap()["trace_id"])
	require.Contains(t, rec.Header().Get("Traceparent"), traceID)
}

func TestTraceMiddlewareContinuesIncomingTrace(t *testing.T) {
	t.Parallel()

	router, recorder, logs := tracedRouter(t)

	const incoming = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodGet, "/products/retro-wave", nil)
	req.Header.Set("Traceparent", "00-"+incoming+"-00f067aa0ba902b7-01")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, incoming, spans[0].SpanContext().TraceID().String())
	require.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
	require.Equal(t, incoming, logs.FilterMessage("request completed").All()[0].ContextMap()["trace_id"])
}
