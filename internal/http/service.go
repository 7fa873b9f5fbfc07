package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/config"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/service"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/document"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	productSvc    service.ProductService
	brandSvc      service.BrandService
	healthChecker document.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	productSvc service.ProductService,
	brandSvc service.BrandService,
	healthChecker document.HealthChecker,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		productSvc:    productSvc,
		brandSvc:      brandSvc,
		healthChecker: healthChecker,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(context.Background(), r); err != nil {
			s.logger.Error("api docs disabled", slog.Any("error", err))
		}
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := s.newHandler()

	routes := func(r chi.Router) {
		r.Get("/products", s.wrap(h.ListProducts))
		r.Post("/products", s.wrap(h.CreateProduct))
		r.Get("/products/{id}", s.wrap(h.GetProduct))
		r.Put("/products/{id}", s.wrap(h.UpdateProduct))
		r.Delete("/products/{id}", s.wrap(h.DeleteProduct))
		r.Get("/brands", s.wrap(h.ListBrands))
	}

	routes(r)
	if prefix := strings.TrimRight(s.cfg.APIPrefix, "/"); prefix != "" {
		r.Route(prefix, routes)
	}

	r.Get(middleware.HealthPath, s.wrap(h.Healthz))
	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is a route handler that reports failures instead of writing
// them, so every error response goes through the same mapping.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// requestError marks a failure to read the request itself (path or body).
type requestError struct {
	err error
}

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func (s *Service) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		// request errors are always client errors, whatever their cause
		var reqErr requestError
		if errors.As(err, &reqErr) && !errors.Is(reqErr.err, apperr.MalformedBodyErr) {
			err = apperr.ValidationErr.WrapParent(reqErr.err)
		}
		s.writeError(w, r, err)
	}
}

// writeError maps err to the catalog error body. The cause of a 500 is only
// logged, never sent.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	level := slog.LevelWarn
	if res.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		slog.Int("status", res.StatusCode),
		slog.String("code", res.Code),
		slog.Any("error", err),
	)

	writeJSON(w, res.StatusCode, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

type handler struct {
	*productHandler
	*brandHandler
	*healthHandler
}

func (s *Service) newHandler() *handler {
	return &handler{
		productHandler: newProductHandler(s.productSvc),
		brandHandler:   newBrandHandler(s.brandSvc),
		healthHandler:  newHealthHandler(s.healthChecker),
	}
}
