package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/correlationid"
)

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logger))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("disk on fire")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"internalServerError","message":"an unknown error occurred"}`, resp.Body.String())
	assert.Contains(t, buf.String(), "disk on fire")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(middleware.Trace(noop.NewTracerProvider().Tracer("test")))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logging(logger))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := correlationid.FromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "corr-42", id)
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get(middleware.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/products/42", nil)
	req.Header.Set(correlationid.Header, "corr-42")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "corr-42", resp.Header().Get(correlationid.Header))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"route":"/products/{id}"`)
	assert.Contains(t, buf.String(), `"status":404`)

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
	assert.Empty(t, buf.String())
}
