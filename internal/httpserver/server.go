package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	custommw "keycraftcaps.com/keycraft-web/internal/httpserver/middleware"
	"keycraftcaps.com/keycraft-web/internal/observability"
	"keycraftcaps.com/keycraft-web/internal/storefront"
	"keycraftcaps.com/keycraft-web/internal/templates"
	"keycraftcaps.com/keycraft-web/public"
)

const (
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime options and collaborators for the storefront server.
type Config struct {
	Addr           string
	BaseURL        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Catalog  *catalog.Catalog
	Store    *storefront.Store
	Renderer *templates.Renderer
	Sessions *custommw.Sessions
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Now      func() time.Time

	// TracerProvider starts request spans; nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// New constructs the HTTP server with the middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       durationOr(cfg.ReadTimeout, defaultReadTimeout),
		ReadHeaderTimeout: durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout:      durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:       durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}, nil
}

// NewHandler builds the router. It is separate from New so tests can drive
// it through httptest.
func NewHandler(cfg Config) (http.Handler, error) {
	switch {
	case cfg.Catalog == nil:
		return nil, errors.New("httpserver: catalog is required")
	case cfg.Store == nil:
		return nil, errors.New("httpserver: store is required")
	case cfg.Renderer == nil:
		return nil, errors.New("httpserver: renderer is required")
	case cfg.Sessions == nil:
		return nil, errors.New("httpserver: sessions are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware(cfg.TracerProvider))
	router.Use(observability.InjectLogger(cfg.Logger))
	router.Use(observability.RequestLogger)
	router.Use(observability.Recovery)
	router.Use(chimw.Timeout(durationOr(cfg.RequestTimeout, defaultRequestTimeout)))
	router.Use(chimw.Compress(5))

	router.Get("/healthz", healthz)
	router.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(staticContent)))

	h := &handlers{
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		renderer: cfg.Renderer,
		metrics:  cfg.Metrics,
		baseURL:  cfg.BaseURL,
		now:      cfg.Now,
	}

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX)
		r.Use(custommw.NoStore)
		r.Use(cfg.Sessions.Middleware)
		r.Use(custommw.CSRF)

		r.Get("/", h.home)
		r.Get("/product", h.product)
		r.Get("/products/{id}", h.selectProduct)
		r.Post("/order/items", h.addItem)
		r.Get("/order", h.order)
		r.Get("/order/summary.txt", h.summary)
		r.Post("/order/send", h.sendOrder)
	})

	return router, nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
