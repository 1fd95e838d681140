package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"keycraftcaps.com/keycraft-web/internal/config"
	"keycraftcaps.com/keycraft-web/internal/httpserver"
	"keycraftcaps.com/keycraft-web/internal/httpserver/middleware"
	"keycraftcaps.com/keycraft-web/internal/observability"
	"keycraftcaps.com/keycraft-web/internal/storefront"
	"keycraftcaps.com/keycraft-web/internal/templates"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr    string
		devMode bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extra := map[string]any{}
			if cmd.Flags().Changed("addr") {
				extra["server.addr"] = addr
			}
			if cmd.Flags().Changed("dev") {
				extra["server.dev_mode"] = devMode
			}
			cfg, err := root.load(extra)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "re-parse templates from server.templates_dir on every request")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tp := observability.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	srv, store, err := buildServer(cfg, logger, tp)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("baseURL", cfg.Server.BaseURL),
			zap.Bool("devMode", cfg.Server.DevMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		runSweeper(gctx, store, cfg.Session.SweepInterval, cfg.Session.IdleTTL, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down storefront")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildServer wires the catalog, session store, renderer and router.
func buildServer(cfg config.Config, logger *zap.Logger, tp trace.TracerProvider) (*http.Server, *storefront.Store, error) {
	shopCatalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Session.EphemeralKey {
		logger.Warn("session signing key generated at startup; carts will not survive a restart",
			zap.String("hint", "set KEYCRAFT_SESSION_SIGNING_KEY"))
	}

	metrics := observability.NewMetrics(nil, logger)
	store := storefront.NewStore(shopCatalog,
		storefront.WithSessionObserver(observability.StorefrontObserver(logger, metrics)),
	)

	var renderOpts []templates.Option
	if cfg.Server.DevMode {
		renderOpts = append(renderOpts, templates.WithDevDir(cfg.Server.TemplatesDir))
	}
	renderer, err := templates.New(renderOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("parse templates: %w", err)
	}

	sessions, err := middleware.NewSessions(middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		SigningKey: []byte(cfg.Session.SigningKey),
		Secure:     cfg.Session.Secure,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure sessions: %w", err)
	}

	srv, err := httpserver.New(httpserver.Config{
		Addr:           cfg.Server.Addr,
		BaseURL:        cfg.Server.BaseURL,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		Catalog:        shopCatalog,
		Store:          store,
		Renderer:       renderer,
		Sessions:       sessions,
		Logger:         logger,
		Metrics:        metrics,
		TracerProvider: tp,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build http server: %w", err)
	}
	return srv, store, nil
}

// runSweeper evicts sessions idle for longer than ttl every interval until
// ctx is done.
func runSweeper(ctx context.Context, store *storefront.Store, interval, ttl time.Duration, logger *zap.Logger) {
	if interval <= 0 || ttl <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(ttl); n > 0 {
				logger.Debug("idle sessions evicted", zap.Int("evicted", n), zap.Int("live", store.Len()))
			}
		}
	}
}
