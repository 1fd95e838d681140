package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/config"
	"keycraftcaps.com/keycraft-web/internal/observability"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogCommandListsProducts(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)

	for _, p := range catalog.MustDefault().Products() {
		require.Contains(t, out, p.ID)
		require.Contains(t, out, p.Name)
	}
	require.Contains(t, out, "$89")
	require.Contains(t, out, "orders@keycraftcaps.com")
}

func TestCatalogCommandHonoursOwnerEmail(t *testing.T) {
	t.Setenv("KEYCRAFT_SHOP_OWNER_EMAIL", "studio@example.com")

	out, err := execute(t, "catalog")
	require.NoError(t, err)
	require.Contains(t, out, "studio@example.com")
}

func TestCatalogCommandMissingFile(t *testing.T) {
	t.Setenv("KEYCRAFT_SHOP_CATALOG_FILE", "/does/not/exist.yaml")

	_, err := execute(t, "catalog")
	require.Error(t, err)
	require.Contains(t, err.Error(), "load catalog")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "keycraft version ")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "catalog")
	require.Error(t, err)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestShopLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"debug": "warn",
		"info":  "warn",
		"warn":  "warn",
		"error": "error",
		"bogus": "warn",
	}
	for in, want := range cases {
		require.Equal(t, want, shopLogLevel(in), in)
	}
}

func TestBuildServerServesStorefront(t *testing.T) {
	cfg, err := config.Load(config.WithoutEnv())
	require.NoError(t, err)

	srv, store, err := buildServer(cfg, zap.NewNop(), observability.NewTracerProvider())
	require.NoError(t, err)
	require.NotNil(t, store)
	require.Equal(t, ":8080", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Traceparent"))
	require.Equal(t, 1, store.Len())
}

func TestRunSweeperEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	store := storefront.NewStore(catalog.MustDefault())
	_, err := store.Snapshot("idle")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runSweeper(ctx, store, time.Millisecond, time.Nanosecond, zap.NewNop())
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRunSweeperDisabledWaitsForCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runSweeper(ctx, storefront.NewStore(catalog.MustDefault()), 0, time.Hour, zap.NewNop())
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
